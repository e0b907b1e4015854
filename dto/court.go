package dto

import "courtfinder/models"

// UpdateCourtRequest: trường nil giữ nguyên giá trị cũ
type UpdateCourtRequest struct {
	Hoops        *string         `json:"hoops"`
	Surface      *string         `json:"surface"`
	Indoor       *bool           `json:"indoor"`
	Netting      *int            `json:"netting"`
	RimType      *int            `json:"rimType"`
	RimHeight    *float64        `json:"rimHeight" binding:"omitempty,gt=0"`
	Address      *models.Address `json:"address"`
	Amenity      *string         `json:"amenity"`
	Website      *string         `json:"website"`
	OpeningHours *string         `json:"openingHours"`
	Phone        *string         `json:"phone"`
}

func (r UpdateCourtRequest) Empty() bool {
	return r.Hoops == nil && r.Surface == nil && r.Indoor == nil && r.Netting == nil &&
		r.RimType == nil && r.RimHeight == nil && r.Address == nil && r.Amenity == nil &&
		r.Website == nil && r.OpeningHours == nil && r.Phone == nil
}
