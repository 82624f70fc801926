package model

// CommonHardwoods is the species list offered when entering boards.
// Order is preserved for display.
var CommonHardwoods = []string{
	"Ash",
	"Black Limba",
	"Bloodwood",
	"Cherry",
	"Douglas Fir",
	"Hickory",
	"Maple",
	"Maple (Ambrosia)",
	"Maple (Birdseye)",
	"Maple (Curly)",
	"Oak (Red)",
	"Oak (White)",
	"Padauk",
	"Pine",
	"Poplar",
	"Purple Heart",
	"Tigerwood",
	"Walnut (Black)",
	"Walnut (Peruvian)",
	"Wenge",
	"Zebrawood",
}
