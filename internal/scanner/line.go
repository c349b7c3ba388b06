package scanner

type Line struct {
	Text   string
	Number int
}

func newLine(text string, number int) Line {
	return Line{
		Text:   text,
		Number: number,
	}
}
