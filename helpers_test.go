package tagstream

// wire builds a byte slice from tags, raw byte values, ASCII rune literals
// and strings, whose characters are taken as single bytes.
func wire(parts ...interface{}) []byte {
	var b []byte
	for _, p := range parts {
		switch p := p.(type) {
		case Tag:
			b = append(b, byte(p))
		case int:
			b = append(b, byte(p))
		case rune:
			b = append(b, byte(p))
		case byte:
			b = append(b, p)
		case string:
			b = append(b, p...)
		default:
			panic("wire: bad part")
		}
	}
	return b
}
