package models

// Color is one of the named fabric colors offered by the shop
type Color string

// SizingType says whether an order uses a named size or custom measurements
type SizingType string

const (
	SizingUnset    SizingType = ""
	SizingStandard SizingType = "standard"
	SizingCustom   SizingType = "custom"
)

// StandardSize is a named size from XS to XXL
type StandardSize string

const (
	SizeXS  StandardSize = "XS"
	SizeS   StandardSize = "S"
	SizeM   StandardSize = "M"
	SizeL   StandardSize = "L"
	SizeXL  StandardSize = "XL"
	SizeXXL StandardSize = "XXL"
)

// Measurements are custom body measurements; every value must be positive
type Measurements struct {
	Chest    float64 `json:"chest"`
	Waist    float64 `json:"waist"`
	Length   float64 `json:"length"`
	Shoulder float64 `json:"shoulder"`
}

// Sizing holds either a standard size or custom measurements, never both.
// Use StandardSizing or CustomSizing to build one.
type Sizing struct {
	Type         SizingType
	Size         StandardSize
	Measurements Measurements
}

// StandardSizing returns a sizing that uses a named size
func StandardSizing(size StandardSize) Sizing {
	return Sizing{Type: SizingStandard, Size: size}
}

// CustomSizing returns a sizing that uses custom measurements
func CustomSizing(m Measurements) Sizing {
	return Sizing{Type: SizingCustom, Measurements: m}
}

// Garment holds the attributes shared by every order regardless of gender
type Garment struct {
	FabricType string
	Color      Color
	Fit        string
	Sizing     Sizing
}

// StyleProfile is the gender-specific attribute set of an order. A nil
// profile means no gender has been chosen.
type StyleProfile interface {
	Gender() Gender
	isStyleProfile()
}

// UnisexStyle carries no extra attributes; unisex orders are described by
// their Garment alone.
type UnisexStyle struct{}

// MaleStyle holds the attributes that only apply to male garments
type MaleStyle struct {
	CollarStyle string
	CuffType    string
	PocketStyle string
	TrouserFit  string
	JacketStyle string
	ButtonCount int
}

// FemaleStyle holds the attributes that only apply to female garments
type FemaleStyle struct {
	SleeveStyle string
	Neckline    string
	Hemline     string
	DressLength string
	Closure     string
}

func (UnisexStyle) Gender() Gender { return GenderUnisex }
func (MaleStyle) Gender() Gender   { return GenderMale }
func (FemaleStyle) Gender() Gender { return GenderFemale }

func (UnisexStyle) isStyleProfile() {}
func (MaleStyle) isStyleProfile()   {}
func (FemaleStyle) isStyleProfile() {}
