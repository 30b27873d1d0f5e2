package eep

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// eepDocument mirrors the shape of EEP.xml: a <telegrams> root grouping
// telegrams by RORG, each containing func groups, each containing one
// profile per type. There is no enclosing root element beyond <telegrams>
// itself.
type eepDocument struct {
	XMLName   xml.Name      `xml:"telegrams"`
	Telegrams []xmlTelegram `xml:"telegram"`
}

type xmlTelegram struct {
	RORG     string        `xml:"rorg,attr"`
	Profiles []xmlProfiles `xml:"profiles"`
}

type xmlProfiles struct {
	Func        string       `xml:"func,attr"`
	Description string       `xml:"description,attr"`
	Profiles    []xmlProfile `xml:"profile"`
}

type xmlProfile struct {
	Type        string   `xml:"type,attr"`
	Description string   `xml:"description,attr"`
	Data        *xmlData `xml:"data"`
}

// xmlData holds a profile's <data> children, in the document order they
// appeared, regardless of how enum/value/status/raw tags are interleaved.
// It implements xml.Unmarshaler itself because encoding/xml's struct-tag
// decoding groups same-named children together, losing cross-tag order.
type xmlData struct {
	Fields []FieldDescriptor
}

func (d *xmlData) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			field, err := decodeDataChild(dec, t)
			if err != nil {
				return err
			}
			d.Fields = append(d.Fields, field)
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// decodeDataChild decodes one <data> child element into a FieldDescriptor.
// The element's tag name is its kind; an unrecognized tag is treated as
// opaque raw, same as <status>, per the EEP XML contract.
func decodeDataChild(dec *xml.Decoder, start xml.StartElement) (FieldDescriptor, error) {
	switch start.Name.Local {
	case "enum":
		var f xmlEnumField
		if err := dec.DecodeElement(&f, &start); err != nil {
			return FieldDescriptor{}, err
		}
		return buildEnumField(f), nil

	case "value":
		var f xmlValueField
		if err := dec.DecodeElement(&f, &start); err != nil {
			return FieldDescriptor{}, err
		}
		return buildValueField(f), nil

	case "status":
		var f xmlStatusField
		if err := dec.DecodeElement(&f, &start); err != nil {
			return FieldDescriptor{}, err
		}
		return buildOpaqueField(f, FieldStatus), nil

	default: // "raw", and any tag the schema doesn't otherwise name: opaque raw.
		var f xmlStatusField
		if err := dec.DecodeElement(&f, &start); err != nil {
			return FieldDescriptor{}, err
		}
		return buildOpaqueField(f, FieldRaw), nil
	}
}

type xmlField struct {
	Shortcut    string `xml:"shortcut,attr"`
	Description string `xml:"description,attr"`
	Offset      int    `xml:"offset,attr"`
	Size        int    `xml:"size,attr"`
}

type xmlEnumField struct {
	xmlField
	Items []xmlEnumItem `xml:"item"`
}

type xmlEnumItem struct {
	Value       string `xml:"value,attr"`
	Description string `xml:"description,attr"`
}

type xmlValueField struct {
	xmlField
	Unit  string    `xml:"unit,attr"`
	Range *xmlRange `xml:"range"`
	Scale *xmlRange `xml:"scale"`
}

type xmlRange struct {
	Min float64 `xml:"min,attr"`
	Max float64 `xml:"max,attr"`
}

type xmlStatusField struct {
	xmlField
}

func buildEnumField(f xmlEnumField) FieldDescriptor {
	fd := FieldDescriptor{
		Shortcut:    f.Shortcut,
		Description: f.Description,
		Offset:      f.Offset,
		Size:        f.Size,
		Kind:        FieldEnum,
	}
	for _, item := range f.Items {
		v, err := strconv.Atoi(item.Value)
		if err != nil {
			continue
		}
		fd.Values = append(fd.Values, EnumValue{Value: v, Description: item.Description})
	}
	return fd
}

func buildValueField(f xmlValueField) FieldDescriptor {
	fd := FieldDescriptor{
		Shortcut:    f.Shortcut,
		Description: f.Description,
		Offset:      f.Offset,
		Size:        f.Size,
		Kind:        FieldValue,
		Unit:        f.Unit,
	}
	if f.Range != nil {
		fd.RawRange = Range{Min: f.Range.Min, Max: f.Range.Max}
	}
	if f.Scale != nil {
		fd.Scale = Range{Min: f.Scale.Min, Max: f.Scale.Max}
	}
	return fd
}

func buildOpaqueField(f xmlStatusField, kind FieldKind) FieldDescriptor {
	return FieldDescriptor{
		Shortcut:    f.Shortcut,
		Description: f.Description,
		Offset:      f.Offset,
		Size:        f.Size,
		Kind:        kind,
	}
}

// parseEEPXML parses a full EEP.xml document into profiles keyed by EEP ID.
func parseEEPXML(data []byte) (map[string]Profile, error) {
	var doc eepDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	profiles := make(map[string]Profile)
	for _, telegram := range doc.Telegrams {
		rorg := formatHexComponent(telegram.RORG, 2)

		for _, group := range telegram.Profiles {
			funcCode := formatHexComponent(group.Func, 2)

			for _, p := range group.Profiles {
				typeCode := formatHexComponent(p.Type, 2)
				desc := p.Description
				if desc == "" {
					desc = group.Description
				}

				var fields []FieldDescriptor
				if p.Data != nil {
					fields = p.Data.Fields
				}

				profile := Profile{
					RORG:        rorg,
					Func:        funcCode,
					Type:        typeCode,
					Description: desc,
					Fields:      fields,
				}
				profiles[profile.ID()] = profile
			}
		}
	}
	return profiles, nil
}

// formatHexComponent strips an optional "0x" prefix, uppercases, and pads
// to width hex digits, matching how the reference tooling formats RORG,
// FUNC, and TYPE components.
func formatHexComponent(s string, width int) string {
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "0X")
	for len(s) < width {
		s = "0" + s
	}
	return s
}
