package format

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-spectra"
)

// Normalized labels of the data tables, in order of preference.
const (
	labelXYData    = "XYDATA"
	labelXYPoints  = "XYPOINTS"
	labelPeakTable = "PEAKTABLE"
)

func loadJCAMP(path string) (*spectra.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readJCAMP(f)
}

// ldr is one labeled data record.
type ldr struct {
	label string
	value string
	lines []string
	line  int
}

// readJCAMP parses the first block of a JCAMP-DX file.
func readJCAMP(r io.Reader) (*spectra.Spectrum, error) {
	records, err := scanRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, spectra.Errorf(spectra.ParseFailure, JCAMP, "no labeled data records")
	}

	md := spectra.Metadata{}
	byLabel := make(map[string]*ldr, len(records))
	for _, rec := range records {
		if _, seen := byLabel[rec.label]; seen {
			continue
		}
		byLabel[rec.label] = rec
		switch rec.label {
		case labelXYData, labelXYPoints, labelPeakTable:
			continue
		}
		md[rec.label] = metadataValue(rec)
	}
	md["source_format"] = JCAMP

	h := header{md: md}
	var x, y []float64
	switch {
	case byLabel[labelXYData] != nil:
		x, y, err = decodeXYData(byLabel[labelXYData], h)
	case byLabel[labelXYPoints] != nil:
		x, y, err = decodePairs(byLabel[labelXYPoints], h)
	case byLabel[labelPeakTable] != nil:
		x, y, err = decodePairs(byLabel[labelPeakTable], h)
	default:
		return nil, spectra.Errorf(spectra.EmptyResult, JCAMP, "no XYDATA, XYPOINTS or PEAK TABLE record")
	}
	if err != nil {
		return nil, err
	}
	if len(y) == 0 {
		return nil, spectra.Errorf(spectra.EmptyResult, JCAMP, "data table has no points")
	}
	return spectra.New(x, y, md)
}

// scanRecords splits the input into labeled records up to the first ##END=.
// $$ starts a comment that runs to the end of the line.
func scanRecords(r io.Reader) ([]*ldr, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		records []*ldr
		cur     *ldr
		lineNo  int
	)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.Index(line, "$$"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimRight(line, " \t\r")

		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "##") {
			label, value, ok := strings.Cut(trimmed[2:], "=")
			if !ok {
				return nil, spectra.Errorf(spectra.ParseFailure, JCAMP, "line %d: label without '='", lineNo)
			}
			label = normalizeLabel(label)
			if label == "END" {
				return records, nil
			}
			if label == "" {
				cur = nil
				continue
			}
			cur = &ldr{label: label, value: strings.TrimSpace(value), line: lineNo}
			records = append(records, cur)
			continue
		}

		if cur == nil || strings.TrimSpace(line) == "" {
			continue
		}
		cur.lines = append(cur.lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, spectra.Wrap(spectra.ParseFailure, JCAMP, err)
	}
	return records, nil
}

// normalizeLabel upper-cases a label and drops spaces, dashes, slashes and
// underscores.
func normalizeLabel(label string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(label) {
		switch c {
		case ' ', '\t', '-', '/', '_':
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// metadataValue is the record value as a float64 when it is a number, and
// the text with continuation lines joined by newlines otherwise.
func metadataValue(rec *ldr) any {
	if len(rec.lines) == 0 {
		if v, err := strconv.ParseFloat(rec.value, 64); err == nil {
			return v
		}
		return rec.value
	}
	parts := append([]string{rec.value}, rec.lines...)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// header gives typed access to the numeric records that control decoding.
type header struct {
	md spectra.Metadata
}

func (h header) number(label string) (float64, bool) {
	v, ok := h.md[label].(float64)
	return v, ok
}

func (h header) factor(label string) float64 {
	if v, ok := h.number(label); ok && v != 0 {
		return v
	}
	return 1
}

// dataLine is one decoded XYDATA line. When check is set the first
// ordinate repeats the last ordinate of the previous line.
type dataLine struct {
	x     float64
	ys    []float64
	check bool
}

// decodeXYData expands an (X++(Y..Y)) table.
func decodeXYData(rec *ldr, h header) ([]float64, []float64, error) {
	var (
		lines    []dataLine
		prevDif  bool
		prevLast float64
	)
	for i, text := range rec.lines {
		lineNo := rec.line + i + 1
		values, endsDif, err := decodeASDF(text)
		if err != nil {
			return nil, nil, spectra.Errorf(spectra.ParseFailure, JCAMP, "line %d: %v", lineNo, err)
		}
		if len(values) < 2 {
			continue
		}

		dl := dataLine{x: values[0], ys: values[1:]}
		if prevDif {
			if !sameOrdinate(dl.ys[0], prevLast) {
				return nil, nil, spectra.Errorf(spectra.ParseFailure, JCAMP,
					"line %d: y check value %v does not match %v", lineNo, dl.ys[0], prevLast)
			}
			dl.check = true
		}
		prevLast = values[len(values)-1]
		prevDif = endsDif
		lines = append(lines, dl)
	}

	yFactor := h.factor("YFACTOR")
	var y []float64
	for _, dl := range lines {
		ys := dl.ys
		if dl.check {
			ys = ys[1:]
		}
		for _, v := range ys {
			y = append(y, v*yFactor)
		}
	}

	if n, ok := h.number("NPOINTS"); ok && int(n) != len(y) {
		return nil, nil, spectra.Errorf(spectra.ParseFailure, JCAMP,
			"NPOINTS is %d but %d ordinates were decoded", int(n), len(y))
	}

	first, okFirst := h.number("FIRSTX")
	last, okLast := h.number("LASTX")
	if okFirst && okLast {
		return evenAbscissa(first, last, len(y)), y, nil
	}
	return runningAbscissa(lines, h), y, nil
}

// evenAbscissa spaces n points from first to last inclusive.
func evenAbscissa(first, last float64, n int) []float64 {
	x := make([]float64, n)
	if n == 1 {
		x[0] = first
		return x
	}
	step := (last - first) / float64(n-1)
	for i := range x {
		x[i] = first + float64(i)*step
	}
	return x
}

// runningAbscissa derives x from the abscissa that starts each line. The
// spacing on a line comes from the start of the next line; the last line
// keeps the previous spacing, or DELTAX when there is only one line.
func runningAbscissa(lines []dataLine, h header) []float64 {
	xFactor := h.factor("XFACTOR")
	delta, _ := h.number("DELTAX")
	delta /= xFactor

	var x []float64
	for i, dl := range lines {
		if i+1 < len(lines) {
			span := len(dl.ys)
			if lines[i+1].check {
				span--
			}
			if span > 0 {
				delta = (lines[i+1].x - dl.x) / float64(span)
			}
		}
		k := 0
		if dl.check {
			k = 1
		}
		for ; k < len(dl.ys); k++ {
			x = append(x, (dl.x+float64(k)*delta)*xFactor)
		}
	}
	return x
}

func sameOrdinate(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

// decodePairs reads an (XY..XY) or (XYW..XYW) style table, keeping the
// first two values of each group.
func decodePairs(rec *ldr, h header) ([]float64, []float64, error) {
	group := groupSize(rec.value)
	if group < 2 {
		return nil, nil, spectra.Errorf(spectra.ParseFailure, JCAMP, "line %d: unsupported table form %q", rec.line, rec.value)
	}
	xFactor, yFactor := h.factor("XFACTOR"), h.factor("YFACTOR")

	var values []float64
	for i, line := range rec.lines {
		fields := strings.FieldsFunc(line, func(c rune) bool {
			return c == ' ' || c == '\t' || c == ',' || c == ';'
		})
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, spectra.Errorf(spectra.ParseFailure, JCAMP, "line %d: %q is not a number", rec.line+i+1, f)
			}
			values = append(values, v)
		}
	}
	if len(values)%group != 0 {
		return nil, nil, spectra.Errorf(spectra.ParseFailure, JCAMP,
			"%d values do not form groups of %d", len(values), group)
	}

	n := len(values) / group
	x, y := make([]float64, n), make([]float64, n)
	for i := range n {
		x[i] = values[i*group] * xFactor
		y[i] = values[i*group+1] * yFactor
	}
	return x, y, nil
}

// groupSize returns the number of variables per group of a table form such
// as "(XY..XY)" or "(XYW..XYW)".
func groupSize(form string) int {
	form = strings.Trim(strings.TrimSpace(form), "()")
	head, _, ok := strings.Cut(form, "..")
	if !ok {
		head = form
	}
	return len(strings.TrimSpace(head))
}

// asdfClass classifies a character of a compressed data line.
type asdfClass int

const (
	classNone asdfClass = iota
	classSQZ
	classDIF
	classDUP
)

// asdfDigit decodes the pseudo-digit characters. SQZ and DIF return a signed
// leading digit, DUP returns the repeat count digit.
func asdfDigit(c byte) (asdfClass, int) {
	switch {
	case c == '@':
		return classSQZ, 0
	case c >= 'A' && c <= 'I':
		return classSQZ, int(c-'A') + 1
	case c >= 'a' && c <= 'i':
		return classSQZ, -(int(c-'a') + 1)
	case c == '%':
		return classDIF, 0
	case c >= 'J' && c <= 'R':
		return classDIF, int(c-'J') + 1
	case c >= 'j' && c <= 'r':
		return classDIF, -(int(c-'j') + 1)
	case c >= 'S' && c <= 'Z':
		return classDUP, int(c-'S') + 1
	case c == 's':
		return classDUP, 9
	}
	return classNone, 0
}

type asdfToken struct {
	class asdfClass
	text  string
}

// tokenizeASDF splits a line into AFFN numbers and SQZ, DIF and DUP tokens.
// E or e directly followed by a sign continues an AFFN exponent; elsewhere
// it is the SQZ digit 5 or -5.
func tokenizeASDF(line string) ([]asdfToken, error) {
	var (
		tokens []asdfToken
		cur    strings.Builder
		class  = classNone
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, asdfToken{class: class, text: cur.String()})
		}
		cur.Reset()
		class = classNone
	}
	start := func(c asdfClass, text string) {
		flush()
		class = c
		cur.WriteString(text)
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == ',' || c == ';':
			flush()
		case c >= '0' && c <= '9' || c == '.':
			if cur.Len() == 0 {
				class = classNone
			}
			cur.WriteByte(c)
		case c == '+' || c == '-':
			prev := cur.String()
			if class == classNone && (strings.HasSuffix(prev, "E") || strings.HasSuffix(prev, "e")) {
				cur.WriteByte(c)
				continue
			}
			start(classNone, string(c))
		case (c == 'E' || c == 'e') && class == classNone && cur.Len() > 0 &&
			i+1 < len(line) && (line[i+1] == '+' || line[i+1] == '-'):
			cur.WriteByte(c)
		case c == '?':
			return nil, fmt.Errorf("missing value '?' at column %d", i+1)
		default:
			cls, d := asdfDigit(c)
			if cls == classNone {
				return nil, fmt.Errorf("unexpected character %q at column %d", c, i+1)
			}
			start(cls, strconv.Itoa(d))
		}
	}
	flush()
	return tokens, nil
}

// decodeASDF decodes one data line into its values, the leading abscissa
// included. endsDif reports whether the last ordinate was DIF encoded, in
// which case the next line repeats it as a y check value.
func decodeASDF(line string) (values []float64, endsDif bool, err error) {
	tokens, err := tokenizeASDF(line)
	if err != nil {
		return nil, false, err
	}

	var lastDelta float64
	for _, tok := range tokens {
		switch tok.class {
		case classNone, classSQZ:
			v, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return nil, false, fmt.Errorf("bad number %q", tok.text)
			}
			values = append(values, v)
			endsDif = false
		case classDIF:
			if len(values) < 2 {
				return nil, false, fmt.Errorf("difference %q without a preceding ordinate", tok.text)
			}
			d, err := strconv.ParseFloat(tok.text, 64)
			if err != nil {
				return nil, false, fmt.Errorf("bad difference %q", tok.text)
			}
			values = append(values, values[len(values)-1]+d)
			lastDelta = d
			endsDif = true
		case classDUP:
			if len(values) < 2 {
				return nil, false, fmt.Errorf("repeat %q without a preceding ordinate", tok.text)
			}
			count, err := strconv.Atoi(tok.text)
			if err != nil || count < 1 {
				return nil, false, fmt.Errorf("bad repeat count %q", tok.text)
			}
			for k := 1; k < count; k++ {
				prev := values[len(values)-1]
				if endsDif {
					prev += lastDelta
				}
				values = append(values, prev)
			}
		}
	}
	return values, endsDif, nil
}
