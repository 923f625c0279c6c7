// Package extract parses known liver-panel biomarker values out of OCR text.
package extract

import (
	"regexp"
	"strconv"
)

// Values holds the ten recognized biomarker readings. A nil field means the
// pattern did not match anywhere in the text; it is never omitted from the
// JSON object.
type Values struct {
	Albumin             *float64 `json:"alb"`
	AlkalinePhosphatase *float64 `json:"alp"`
	Cholinesterase      *float64 `json:"che"`
	Bilirubin           *float64 `json:"bil"`
	AST                 *float64 `json:"ast"`
	ALT                 *float64 `json:"alt"`
	Cholesterol         *float64 `json:"chol"`
	Creatinine          *float64 `json:"crea"`
	GGT                 *float64 `json:"ggt"`
	TotalProtein        *float64 `json:"prot"`
}

// Reading is one present biomarker value, labeled with its short code.
type Reading struct {
	Label string
	Value float64
}

type pattern struct {
	label string
	re    *regexp.Regexp
	get   func(*Values) **float64
}

// Labels may appear as the short code or the extended spelling
// ("alb" or "albumin"). The first match in the text wins.
var patterns = []pattern{
	{"ALB", regexp.MustCompile(`(?i)alb(?:umin)?[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.Albumin }},
	{"ALP", regexp.MustCompile(`(?i)alp[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.AlkalinePhosphatase }},
	{"CHE", regexp.MustCompile(`(?i)che[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.Cholinesterase }},
	{"BIL", regexp.MustCompile(`(?i)bil(?:irubin)?[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.Bilirubin }},
	{"AST", regexp.MustCompile(`(?i)ast[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.AST }},
	{"ALT", regexp.MustCompile(`(?i)alt[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.ALT }},
	{"CHOL", regexp.MustCompile(`(?i)chol(?:esterol)?[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.Cholesterol }},
	{"CREA", regexp.MustCompile(`(?i)crea(?:tinine)?[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.Creatinine }},
	{"GGT", regexp.MustCompile(`(?i)ggt[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.GGT }},
	{"PROT", regexp.MustCompile(`(?i)prot(?:ein)?[:\s]*([\d.]+)`), func(v *Values) **float64 { return &v.TotalProtein }},
}

// Parse scans text for the ten known biomarkers. It is a pure function with
// no failure mode: a capture that does not parse as a decimal number (the
// character class admits strings like "..") is treated the same as no match.
func Parse(text string) Values {
	var out Values
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		*p.get(&out) = &val
	}
	return out
}

// Empty reports whether no biomarker was found at all.
func (v Values) Empty() bool {
	return len(v.Present()) == 0
}

// Present returns the found readings in declaration order.
func (v Values) Present() []Reading {
	var out []Reading
	for _, p := range patterns {
		if ptr := *p.get(&v); ptr != nil {
			out = append(out, Reading{Label: p.label, Value: *ptr})
		}
	}
	return out
}
