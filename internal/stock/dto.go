package stock

import (
	"bytes"
	"encoding/json"
)

type CreateDTO struct {
	ItemName            string  `json:"item_name" validate:"required"`
	BrandSpecifications string  `json:"brand_specifications" validate:"required"`
	AvailableQuantity   int     `json:"available_quantity" validate:"min=0"`
	Unit                string  `json:"unit" validate:"required"`
	Description         *string `json:"description"`
}

// UpdateDTO is a partial update. Omitted fields keep their value and
// available_quantity is added to the stored quantity. An explicit null
// description clears it.
type UpdateDTO struct {
	ItemName            *string `json:"item_name"`
	BrandSpecifications *string `json:"brand_specifications"`
	AvailableQuantity   *int    `json:"available_quantity"`
	Unit                *string `json:"unit"`
	Description         *string `json:"description"`
	ClearDescription    bool    `json:"-"`
}

func (d *UpdateDTO) UnmarshalJSON(data []byte) error {
	type plain UpdateDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*d = UpdateDTO(p)
	if raw, ok := fields["description"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		d.ClearDescription = true
	}
	return nil
}

// Patch holds the descriptive fields of an update.
type Patch struct {
	ItemName            *string
	BrandSpecifications *string
	Unit                *string
	Description         *string
	ClearDescription    bool
}

func (p Patch) columns() map[string]interface{} {
	values := map[string]interface{}{}
	if p.ItemName != nil {
		values["item_name"] = *p.ItemName
	}
	if p.BrandSpecifications != nil {
		values["brand_specifications"] = *p.BrandSpecifications
	}
	if p.Unit != nil {
		values["unit"] = *p.Unit
	}
	if p.Description != nil {
		values["description"] = *p.Description
	} else if p.ClearDescription {
		values["description"] = nil
	}
	return values
}

func (d UpdateDTO) Patch() Patch {
	return Patch{
		ItemName:            d.ItemName,
		BrandSpecifications: d.BrandSpecifications,
		Unit:                d.Unit,
		Description:         d.Description,
		ClearDescription:    d.ClearDescription,
	}
}

type ConsumeDTO struct {
	ItemID   string  `json:"item_id" validate:"required"`
	Quantity int     `json:"quantity" validate:"gt=0"`
	Reason   *string `json:"reason"`
}

type ConsumeResult struct {
	Message           string `json:"message"`
	ItemName          string `json:"item_name"`
	ConsumedQuantity  int    `json:"consumed_quantity"`
	RemainingQuantity int    `json:"remaining_quantity"`
	Unit              string `json:"unit"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"file_path"`
}
