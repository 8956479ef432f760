package sink

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
	"strings"
)

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// cssEscaper turns angle brackets into CSS escapes so style sheet text can
// neither end the CDATA section nor the <style> element around it.
var cssEscaper = strings.NewReplacer("<", `\3c `, ">", `\3e `)

// EscapeCSS makes a style sheet safe to embed in a <style> element.
func EscapeCSS(css string) string {
	return cssEscaper.Replace(css)
}

// num formats a pixel value with at most two decimals.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
