package views

import (
	"strings"

	"github.com/kendall-kelly/tailoring-orders-portal/models"
)

// FieldKind tells a front end which input to render
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindEmail    FieldKind = "email"
	KindTel      FieldKind = "tel"
	KindTextArea FieldKind = "textarea"
	KindSelect   FieldKind = "select"
	KindNumber   FieldKind = "number"
)

// Group is a set of fields shown or hidden together
type Group string

const (
	GroupDetails      Group = "details"
	GroupGarment      Group = "garment"
	GroupStandardSize Group = "standard_size"
	GroupMeasurements Group = "measurements"
	GroupMale         Group = "male"
	GroupFemale       Group = "female"
)

// MeasurementsPrefix routes a field name into the custom measurements group
const MeasurementsPrefix = "customMeasurements."

// Form field names
const (
	FieldGender           = "gender"
	FieldCustomerName     = "customerName"
	FieldCustomerEmail    = "customerEmail"
	FieldCustomerContact  = "customerContact"
	FieldDeliveryLocation = "deliveryLocation"
	FieldDescription      = "description"
	FieldFabricType       = "fabricType"
	FieldColor            = "color"
	FieldFit              = "fit"
	FieldSizingType       = "sizingType"
	FieldStandardSize     = "standardSize"
	FieldChest            = MeasurementsPrefix + "chest"
	FieldWaist            = MeasurementsPrefix + "waist"
	FieldLength           = MeasurementsPrefix + "length"
	FieldShoulder         = MeasurementsPrefix + "shoulder"
	FieldCollarStyle      = "collarStyle"
	FieldCuffType         = "cuffType"
	FieldPocketStyle      = "pocketStyle"
	FieldTrouserFit       = "trouserFit"
	FieldJacketStyle      = "jacketStyle"
	FieldButtonCount      = "buttonCount"
	FieldSleeveStyle      = "sleeveStyle"
	FieldNeckline         = "neckline"
	FieldHemline          = "hemline"
	FieldDressLength      = "dressLength"
	FieldClosure          = "closure"
)

// FieldDef describes one input of the order edit form
type FieldDef struct {
	Name     string
	Label    string
	Kind     FieldKind
	Group    Group
	Required bool
	Options  []string
	// Rules is the validator tag checked against the raw value
	Rules string
	// NumberRules is checked against the parsed value of a numeric field
	NumberRules string
	Integer     bool
	FreeText    bool // sanitized before it is stored
}

// FieldDefinitions returns the order edit form fields in display order
func FieldDefinitions(c *models.Catalog) []FieldDef {
	return []FieldDef{
		{Name: FieldGender, Label: "Gender", Kind: KindSelect, Group: GroupDetails, Required: true, Options: c.Genders, Rules: oneOf(c.Genders)},
		{Name: FieldCustomerName, Label: "Customer Name", Kind: KindText, Group: GroupDetails, Required: true, Rules: "required", FreeText: true},
		{Name: FieldCustomerEmail, Label: "Customer Email", Kind: KindEmail, Group: GroupDetails, Required: true, Rules: "required,email"},
		{Name: FieldCustomerContact, Label: "Contact Number", Kind: KindTel, Group: GroupDetails, Required: true, Rules: "required"},
		{Name: FieldDeliveryLocation, Label: "Delivery Address", Kind: KindTextArea, Group: GroupDetails, Required: true, Rules: "required", FreeText: true},
		{Name: FieldDescription, Label: "Description", Kind: KindTextArea, Group: GroupDetails, FreeText: true},

		{Name: FieldFabricType, Label: "Fabric Type", Kind: KindSelect, Group: GroupGarment, Required: true, Options: c.FabricTypes, Rules: "required"},
		{Name: FieldColor, Label: "Color", Kind: KindSelect, Group: GroupGarment, Required: true, Options: c.Colors, Rules: oneOf(c.Colors)},
		{Name: FieldFit, Label: "Fit", Kind: KindSelect, Group: GroupGarment, Required: true, Options: c.Fits, Rules: "required"},
		{Name: FieldSizingType, Label: "Sizing Type", Kind: KindSelect, Group: GroupGarment, Required: true, Options: c.SizingTypes, Rules: oneOf(c.SizingTypes)},

		{Name: FieldStandardSize, Label: "Standard Size", Kind: KindSelect, Group: GroupStandardSize, Required: true, Options: c.StandardSizes, Rules: oneOf(c.StandardSizes)},

		{Name: FieldChest, Label: "Chest", Kind: KindNumber, Group: GroupMeasurements, Required: true, Rules: "required,numeric", NumberRules: "gt=0"},
		{Name: FieldWaist, Label: "Waist", Kind: KindNumber, Group: GroupMeasurements, Required: true, Rules: "required,numeric", NumberRules: "gt=0"},
		{Name: FieldLength, Label: "Length", Kind: KindNumber, Group: GroupMeasurements, Required: true, Rules: "required,numeric", NumberRules: "gt=0"},
		{Name: FieldShoulder, Label: "Shoulder", Kind: KindNumber, Group: GroupMeasurements, Required: true, Rules: "required,numeric", NumberRules: "gt=0"},

		{Name: FieldCollarStyle, Label: "Collar Style", Kind: KindSelect, Group: GroupMale, Required: true, Options: c.Male.CollarStyles, Rules: "required"},
		{Name: FieldCuffType, Label: "Cuff Type", Kind: KindSelect, Group: GroupMale, Required: true, Options: c.Male.CuffTypes, Rules: "required"},
		{Name: FieldPocketStyle, Label: "Pocket Style", Kind: KindSelect, Group: GroupMale, Required: true, Options: c.Male.PocketStyles, Rules: "required"},
		{Name: FieldTrouserFit, Label: "Trouser Fit", Kind: KindSelect, Group: GroupMale, Required: true, Options: c.Male.TrouserFits, Rules: "required"},
		{Name: FieldJacketStyle, Label: "Jacket Style", Kind: KindSelect, Group: GroupMale, Required: true, Options: c.Male.JacketStyles, Rules: "required"},
		{Name: FieldButtonCount, Label: "Button Count", Kind: KindSelect, Group: GroupMale, Required: true, Options: c.ButtonCountOptions(), Rules: "required,number", NumberRules: "min=1", Integer: true},

		{Name: FieldSleeveStyle, Label: "Sleeve Style", Kind: KindSelect, Group: GroupFemale, Required: true, Options: c.Female.SleeveStyles, Rules: "required"},
		{Name: FieldNeckline, Label: "Neckline", Kind: KindSelect, Group: GroupFemale, Required: true, Options: c.Female.Necklines, Rules: "required"},
		{Name: FieldHemline, Label: "Hemline", Kind: KindSelect, Group: GroupFemale, Required: true, Options: c.Female.Hemlines, Rules: "required"},
		{Name: FieldDressLength, Label: "Dress/Skirt Length", Kind: KindSelect, Group: GroupFemale, Required: true, Options: c.Female.DressLengths, Rules: "required"},
		{Name: FieldClosure, Label: "Closure", Kind: KindSelect, Group: GroupFemale, Required: true, Options: c.Female.Closures, Rules: "required"},
	}
}

// oneOf restricts a select to its options. Other selects only suggest
// values so a legacy value survives an edit.
func oneOf(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		if strings.ContainsAny(o, " \t") {
			o = "'" + o + "'"
		}
		quoted[i] = o
	}
	return "required,oneof=" + strings.Join(quoted, " ")
}

// VisibleGroups returns the field groups shown for a gender and sizing type
func VisibleGroups(gender models.Gender, sizing models.SizingType) []Group {
	groups := []Group{GroupDetails}
	switch gender {
	case models.GenderUnisex:
		groups = append(groups, GroupGarment)
		switch sizing {
		case models.SizingStandard:
			groups = append(groups, GroupStandardSize)
		case models.SizingCustom:
			groups = append(groups, GroupMeasurements)
		}
	case models.GenderMale:
		groups = append(groups, GroupMale)
	case models.GenderFemale:
		groups = append(groups, GroupFemale)
	}
	return groups
}
