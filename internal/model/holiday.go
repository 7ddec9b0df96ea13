package model

// Holiday は祝日フィードの1エントリを表す。
type Holiday struct {
	Summary string
}

// HolidayTable は日付文字列（DateLayout形式）をキーとする祝日の参照表。
// 外部フィードからダッシュボード表示のたびに取得され、永続化はされない。
type HolidayTable map[string]Holiday
