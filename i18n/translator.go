// Package i18n holds the built-in issue message dictionaries.
//
// Dictionaries are immutable values; a parse call picks one through
// goshape.ParseOpt.Translator. There is no process-wide current language.
package i18n

import "fmt"

// Translator retrieves localized messages for issue codes. param is the
// issue's Param (an expected type name, a bound, an allowed list).
type Translator interface {
	Message(code string, param any) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(code string, param any) string

func (f TranslatorFunc) Message(code string, param any) string { return f(code, param) }

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

// Default returns the English dictionary.
func Default() Translator { return dictTranslator{lang: "en"} }

// Dict returns the built-in dictionary for lang ("en" or "ja"). Unknown
// languages fall back to English.
func Dict(lang string) Translator {
	if lang != "ja" {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

func (t dictTranslator) Message(code string, param any) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return withParam("型が不正です", "期待値", param)
		case "required":
			return "必須プロパティが不足しています"
		case "unknown_key":
			return "未知のキーです"
		case "too_short":
			return withParam("短すぎます", "最小", param)
		case "too_long":
			return withParam("長すぎます", "最大", param)
		case "too_small":
			return withParam("小さすぎます", "最小", param)
		case "too_big":
			return withParam("大きすぎます", "最大", param)
		case "not_integer":
			return "整数ではありません"
		case "not_finite":
			return "有限数ではありません"
		case "not_multiple_of":
			return withParam("倍数ではありません", "除数", param)
		case "pattern":
			return "パターンに一致しません"
		case "invalid_literal", "invalid_enum":
			return "許可されていない値です"
		case "invalid_union":
			return "どの候補にも一致しません"
		case "invalid_intersection":
			return "交差型の結果を統合できません"
		case "discriminator_missing":
			return "判別キーがありません"
		case "discriminator_unknown":
			return withParam("未知のバリアントです", "値", param)
		case "custom":
			return "カスタム検証に失敗しました"
		case "parse_error":
			return "解析エラー"
		case "duplicate_key":
			return withParam("キーが重複しています", "キー", param)
		case "dependency_unavailable":
			return "依存先サービスが利用できません"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return withParam("invalid type", "expected", param)
		case "required":
			return withParam("required property missing", "expected", param)
		case "unknown_key":
			return "unknown key"
		case "too_short":
			return withParam("too short", "min", param)
		case "too_long":
			return withParam("too long", "max", param)
		case "too_small":
			return withParam("too small", "min", param)
		case "too_big":
			return withParam("too big", "max", param)
		case "not_integer":
			return "not an integer"
		case "not_finite":
			return "not a finite number"
		case "not_multiple_of":
			return withParam("not a multiple", "divisor", param)
		case "pattern":
			return withParam("does not match pattern", "pattern", param)
		case "invalid_literal":
			return withParam("invalid literal", "expected", param)
		case "invalid_enum":
			return withParam("invalid enum value", "allowed", param)
		case "invalid_union":
			return "no union member matched"
		case "invalid_intersection":
			return "intersection outputs cannot be merged"
		case "discriminator_missing":
			return withParam("discriminator missing", "key", param)
		case "discriminator_unknown":
			return withParam("unknown variant", "tag", param)
		case "custom":
			return "custom check failed"
		case "parse_error":
			return "parse error"
		case "duplicate_key":
			return withParam("duplicate key", "key", param)
		case "dependency_unavailable":
			return "dependency unavailable"
		}
	}
	return code
}

func withParam(msg, label string, param any) string {
	if param == nil {
		return msg
	}
	return fmt.Sprintf("%s (%s: %v)", msg, label, param)
}
