package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "got" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "empty_field":
			return "必須フィールドが空です"
		case "invalid_domain":
			return "DNSドメイン名として不正です"
		case "invalid_timestamp":
			return "タイムスタンプとして不正です"
		case "type_mismatch":
			return "フィールドの型が不正です"
		case "malformed_block":
			return "ブロックの形式が不正です"
		case "syntax_error":
			return "構文エラー"
		case "duplicate_key":
			return "キーが重複しています"
		}
	default: // "en"
		switch code {
		case "empty_field":
			return "required field is empty"
		case "invalid_domain":
			return "not a valid DNS domain name"
		case "invalid_timestamp":
			return "not a valid timestamp"
		case "type_mismatch":
			return "field has the wrong type"
		case "malformed_block":
			return "malformed block"
		case "syntax_error":
			return "syntax error"
		case "duplicate_key":
			return "duplicate key"
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
