package gcode

// ParseLine tokenizes one normalized line (already trimmed, uppercased,
// comment-free by the protocol layer) into a Block. Unrecognized letter
// words are skipped up to the next whitespace; a malformed numeric literal
// yields StatusInvalidParam; an empty line yields an OK block with no
// flags set.
//
// Numbers are parsed by hand rather than via strconv, following
// standalone/gcode/parser.go's approach for the same word-scanning
// problem.
func ParseLine(line string) (Block, Status) {
	var blk Block
	n := len(line)
	i := 0

	for i < n {
		for i < n && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}

		letter := line[i]
		i++

		switch letter {
		case 'G':
			v, next, ok := parseInt(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.G, blk.HasG, i = v, true, next
		case 'M':
			v, next, ok := parseInt(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.M, blk.HasM, i = v, true, next
		case 'X':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.X, blk.HasX, i = v, true, next
		case 'Y':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.Y, blk.HasY, i = v, true, next
		case 'I':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.I, blk.HasI, i = v, true, next
		case 'J':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.J, blk.HasJ, i = v, true, next
		case 'R':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.R, blk.HasR, i = v, true, next
		case 'F':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.F, blk.HasF, i = v, true, next
		case 'S':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.S, blk.HasS, i = v, true, next
		case 'P':
			v, next, ok := parseFloat(line, i)
			if !ok {
				return Block{}, StatusInvalidParam
			}
			blk.P, blk.HasP, i = v, true, next
		default:
			for i < n && line[i] != ' ' && line[i] != '\t' {
				i++
			}
		}
	}

	return blk, StatusOK
}

// parseInt reads an optionally-signed decimal integer starting at i.
// Returns ok=false (and the original i) if no digit was found.
func parseInt(s string, i int) (int, int, bool) {
	start := i
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	digitsStart := i
	val := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		val = val*10 + int(s[i]-'0')
		i++
	}
	if i == digitsStart {
		return 0, start, false
	}
	if neg {
		val = -val
	}
	return val, i, true
}

// parseFloat reads an optionally-signed decimal float (with optional
// fractional part) starting at i.
func parseFloat(s string, i int) (float64, int, bool) {
	start := i
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}

	digitsStart := i
	intPart := 0.0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		intPart = intPart*10 + float64(s[i]-'0')
		i++
	}
	hasDigits := i > digitsStart

	frac := 0.0
	fracDiv := 1.0
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			frac = frac*10 + float64(s[i]-'0')
			fracDiv *= 10
			i++
			hasDigits = true
		}
	}

	if !hasDigits {
		return 0, start, false
	}

	val := intPart + frac/fracDiv
	if neg {
		val = -val
	}
	return val, i, true
}
