package text

// bitmapGlyphs is the built-in 5×7 instrument glyph set. Rows are strings
// of '#' (covered) and ' ' (clear). The set covers uppercase ASCII,
// digits and the punctuation the default HUD readouts use; lowercase
// input is folded to uppercase. Unknown runes render as a blank cell.
var bitmapGlyphs = map[rune][]string{
	'A': {"  #  ", " # # ", "#   #", "#####", "#   #", "#   #", "#   #"},
	'B': {"#### ", "#   #", "#   #", "#### ", "#   #", "#   #", "#### "},
	'C': {" ####", "#    ", "#    ", "#    ", "#    ", "#    ", " ####"},
	'D': {"###  ", "#  # ", "#   #", "#   #", "#   #", "#  # ", "###  "},
	'E': {"#####", "#    ", "#    ", "#### ", "#    ", "#    ", "#####"},
	'F': {"#####", "#    ", "#    ", "#### ", "#    ", "#    ", "#    "},
	'G': {" ### ", "#   #", "#    ", "# ###", "#   #", "#   #", " ### "},
	'H': {"#   #", "#   #", "#   #", "#####", "#   #", "#   #", "#   #"},
	'I': {" ### ", "  #  ", "  #  ", "  #  ", "  #  ", "  #  ", " ### "},
	'J': {"  ###", "   # ", "   # ", "   # ", "#  # ", "#  # ", " ##  "},
	'K': {"#   #", "#  # ", "# #  ", "##   ", "# #  ", "#  # ", "#   #"},
	'L': {"#    ", "#    ", "#    ", "#    ", "#    ", "#    ", "#####"},
	'M': {"#   #", "## ##", "# # #", "#   #", "#   #", "#   #", "#   #"},
	'N': {"#   #", "##  #", "# # #", "#  ##", "#   #", "#   #", "#   #"},
	'O': {" ### ", "#   #", "#   #", "#   #", "#   #", "#   #", " ### "},
	'P': {"#### ", "#   #", "#   #", "#### ", "#    ", "#    ", "#    "},
	'Q': {" ### ", "#   #", "#   #", "#   #", "# # #", "#  # ", " ## #"},
	'R': {"#### ", "#   #", "#   #", "#### ", "# #  ", "#  # ", "#   #"},
	'S': {" ####", "#    ", "#    ", " ### ", "    #", "    #", "#### "},
	'T': {"#####", "  #  ", "  #  ", "  #  ", "  #  ", "  #  ", "  #  "},
	'U': {"#   #", "#   #", "#   #", "#   #", "#   #", "#   #", " ### "},
	'V': {"#   #", "#   #", "#   #", "#   #", " # # ", " # # ", "  #  "},
	'W': {"#   #", "#   #", "#   #", "# # #", "# # #", "## ##", "#   #"},
	'X': {"#   #", "#   #", " # # ", "  #  ", " # # ", "#   #", "#   #"},
	'Y': {"#   #", "#   #", " # # ", "  #  ", "  #  ", "  #  ", "  #  "},
	'Z': {"#####", "    #", "   # ", "  #  ", " #   ", "#    ", "#####"},
	'0': {" ### ", "#   #", "#  ##", "# # #", "##  #", "#   #", " ### "},
	'1': {"  #  ", " ##  ", "# #  ", "  #  ", "  #  ", "  #  ", "#####"},
	'2': {" ### ", "#   #", "    #", "   # ", "  #  ", " #   ", "#####"},
	'3': {" ### ", "#   #", "    #", "  ## ", "    #", "#   #", " ### "},
	'4': {"   # ", "  ## ", " # # ", "#  # ", "#####", "   # ", "   # "},
	'5': {"#####", "#    ", "#### ", "    #", "    #", "#   #", " ### "},
	'6': {" ### ", "#   #", "#    ", "#### ", "#   #", "#   #", " ### "},
	'7': {"#####", "    #", "   # ", "   # ", "  #  ", "  #  ", "  #  "},
	'8': {" ### ", "#   #", "#   #", " ### ", "#   #", "#   #", " ### "},
	'9': {" ### ", "#   #", "#   #", " ####", "    #", "#   #", " ### "},
	'-': {"     ", "     ", "     ", " ### ", "     ", "     ", "     "},
	':': {"     ", "  #  ", "     ", "     ", "     ", "  #  ", "     "},
	'.': {"     ", "     ", "     ", "     ", "     ", "  ## ", "  ## "},
	'Δ': {"  #  ", "  #  ", " # # ", " # # ", "#   #", "#   #", "#####"},
	' ': {"     ", "     ", "     ", "     ", "     ", "     ", "     "},
}

const (
	bitmapGlyphWidth  = 5
	bitmapGlyphHeight = 7
)

// BitmapFace is the zero-configuration Face: a 5×7 instrument glyph set
// with one blank column of side bearing per glyph. Its natural size is
// the raw cell grid; label rendering scales it as needed.
//
// The zero value is ready to use and safe for concurrent use.
type BitmapFace struct{}

// glyph resolves a rune to its row strings, folding lowercase to upper.
func (BitmapFace) glyph(r rune) []string {
	if g, ok := bitmapGlyphs[r]; ok {
		return g
	}
	if r >= 'a' && r <= 'z' {
		return bitmapGlyphs[r-'a'+'A']
	}
	return bitmapGlyphs[' ']
}

// Advance implements Face. Every cell is 5 units wide plus one unit of
// spacing.
func (f BitmapFace) Advance(r rune) float64 {
	rows := f.glyph(r)
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return float64(width + 1)
}

// GlyphMask implements Face. Coverage is binary.
func (f BitmapFace) GlyphMask(r rune) Mask {
	rows := f.glyph(r)
	m := Mask{
		Width:    bitmapGlyphWidth,
		Height:   bitmapGlyphHeight,
		Coverage: make([]float32, bitmapGlyphWidth*bitmapGlyphHeight),
	}
	for y, row := range rows {
		for x := 0; x < len(row) && x < bitmapGlyphWidth; x++ {
			if row[x] == '#' {
				m.Coverage[y*bitmapGlyphWidth+x] = 1
			}
		}
	}
	return m
}

// Height implements Face.
func (BitmapFace) Height() float64 { return bitmapGlyphHeight }
