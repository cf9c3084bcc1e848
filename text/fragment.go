package text

// TextFragment represents a run of text at a specific position on a page
type TextFragment struct {
	Text     string
	X, Y     float64 // Y is the baseline in PDF space (origin bottom-left)
	Width    float64
	Height   float64
	FontName string
	FontSize float64
}

// Right returns the X coordinate of the fragment's right edge
func (f TextFragment) Right() float64 {
	return f.X + f.Width
}

// Top returns the Y coordinate of the fragment's top edge in PDF space
func (f TextFragment) Top() float64 {
	return f.Y + f.Height
}
