package i18n

// Translator retrieves localized messages for rule codes. data provides
// optional metadata to embed in the message (for example, "field" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			return "必須フィールドが不足しています"
		case "invalid_type":
			return "型が不正です"
		case "pattern":
			return "書式が不正です"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "invalid_enum":
			return "許可されていない値です"
		case "unknown_field":
			return "未知の列です"
		case "out_of_order":
			return "並び順が不正です"
		case "out_of_range":
			return "範囲外の値です"
		case "ends_before_start":
			return "終了が開始より前です"
		case "before_related":
			return "関連する日付より前です"
		case "future_date":
			return "未来の日付です"
		case "too_old":
			return "古すぎる日付です"
		case "not_positive":
			return "正の値ではありません"
		case "negative":
			return "負の値です"
		case "unauthorized":
			return "許可されていない操作者です"
		case "duplicate":
			return "値が重複しています"
		case "unknown_ref":
			return "参照先が存在しません"
		case "missing_child":
			return "子レコードがありません"
		}
	default: // "en"
		switch code {
		case "required":
			return "required field missing"
		case "invalid_type":
			return "invalid type"
		case "pattern":
			return "format mismatch"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "invalid_enum":
			return "value not allowed"
		case "unknown_field":
			return "unknown column"
		case "out_of_order":
			return "out of order"
		case "out_of_range":
			return "out of range"
		case "ends_before_start":
			return "ends before it starts"
		case "before_related":
			return "earlier than the related date"
		case "future_date":
			return "date is in the future"
		case "too_old":
			return "date is too old"
		case "not_positive":
			return "value is not positive"
		case "negative":
			return "value is negative"
		case "unauthorized":
			return "actor is not authorized"
		case "duplicate":
			return "duplicate value"
		case "unknown_ref":
			return "reference not found"
		case "missing_child":
			return "no child rows"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
