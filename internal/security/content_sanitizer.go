// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザーが入力する業務内容などの
// 自由記述テキストをサニタイズし、XSS攻撃からユーザーを保護する。
// bluemondayライブラリのStrictPolicyを使用し、HTMLタグを一切許可しない。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService は自由記述テキストのサニタイズ機能のインターフェースを定義する。
// 業務内容の保存前に使用される。
type ContentSanitizerService interface {
	// Sanitize は入力テキストからHTMLタグとスクリプトを除去して返す。
	// 業務内容はプレーンテキストとして扱うため、許可タグはない。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはすべてのHTML要素と属性を除去する。
// script要素の中身やon*イベント属性も残らない。
func NewContentSanitizer() *contentSanitizer {
	return &contentSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力テキストからHTMLタグとスクリプトを除去して返す。
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
