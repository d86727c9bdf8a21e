package chip8

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// Display is the monochrome 64x32 framebuffer.
//
// Sprites are drawn by XORing their bits into the buffer; a draw reports a
// collision when at least one pixel transitions from set to unset.
type Display struct {
	pixels [DisplayWidth * DisplayHeight]bool
}

// Clear unsets every pixel.
func (d *Display) Clear() {
	d.pixels = [DisplayWidth * DisplayHeight]bool{}
}

// DrawSprite XORs the sprite into the framebuffer at (x, y) and reports
// whether any pixel was erased. Each sprite byte is one row of 8 pixels,
// most significant bit leftmost. Coordinates wrap around both screen edges.
//
// Drawing the identical sprite at the identical position twice fully erases
// it; the second draw reports a collision for every pixel that was set.
func (d *Display) DrawSprite(x, y byte, sprite []byte) bool {
	collision := false

	for row, b := range sprite {
		py := (int(y) + row) % DisplayHeight

		for col := 0; col < 8; col++ {
			px := (int(x) + col) % DisplayWidth
			bit := b&(1<<(7-col)) != 0
			collision = d.xorPixel(py*DisplayWidth+px, bit) || collision
		}
	}

	return collision
}

// xorPixel XORs bit into the pixel at index i and reports whether the pixel
// transitioned from set to unset.
func (d *Display) xorPixel(i int, bit bool) bool {
	prev := d.pixels[i]
	next := prev != bit
	d.pixels[i] = next
	return prev && !next
}

// Pixel reports whether the pixel at (x, y) is set.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[y*DisplayWidth+x]
}

// Pixels returns a copy of the framebuffer in row-major order.
func (d *Display) Pixels() [DisplayWidth * DisplayHeight]bool {
	return d.pixels
}
