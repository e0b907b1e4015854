package models

// Address là địa chỉ OpenStreetMap của sân
type Address struct {
	HouseNumber string `json:"houseNumber"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
	Country     string `json:"country"`
}

// Court là một sân bóng rổ, ID là way id trên OpenStreetMap.
type Court struct {
	ID           int64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string   `json:"name"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Hoops        string   `json:"hoops"`
	Surface      string   `json:"surface"`
	Indoor       *bool    `json:"indoor"`
	Netting      *int     `json:"netting"`
	RimType      *int     `json:"rimType"`
	RimHeight    *float64 `json:"rimHeight"`
	Address      Address  `gorm:"embedded;embeddedPrefix:addr_" json:"address"`
	Amenity      string   `json:"amenity"`
	Website      string   `json:"website"`
	Leisure      string   `json:"leisure"`
	OpeningHours string   `json:"openingHours"`
	Phone        string   `json:"phone"`
}
