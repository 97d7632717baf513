package view

import (
	"math"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder 値がない場合の表示
const Placeholder = "—"

var printer = message.NewPrinter(language.English)

// Money ドル表記に整形する（小数点以下は四捨五入）
func Money(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Placeholder
	}
	return "$" + printer.Sprint(number.Decimal(math.Round(*v), number.MaxFractionDigits(0)))
}

// Number 桁区切りと指定桁数の小数で整形する
func Number(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return printer.Sprint(decimal(v, digits))
}

// NumberPtr nilの場合はプレースホルダーを返す
func NumberPtr(v *float64, digits int) string {
	if v == nil {
		return Placeholder
	}
	return Number(*v, digits)
}

// Percent パーセント表記に整形する
func Percent(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return printer.Sprint(decimal(v, digits)) + "%"
}

func decimal(v float64, digits int) number.Formatter {
	return number.Decimal(v, number.MinFractionDigits(digits), number.MaxFractionDigits(digits))
}

// Date ISO 8601の日時を表示用に整形する
// 解釈できない値はそのまま返す
func Date(iso string) string {
	if iso == "" {
		return Placeholder
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.UTC().Format("Jan 2, 2006, 3:04 PM")
		}
	}
	return iso
}

// Text 空文字をプレースホルダーに置き換える
func Text(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// Anchor 見出しなどに使うアンカーIDを返す
func Anchor(parts ...string) string {
	joined := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if joined != "" {
			joined += " "
		}
		joined += p
	}
	return slug.Make(joined)
}
