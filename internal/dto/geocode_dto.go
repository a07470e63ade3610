package dto

type ReverseGeocodeRequest struct {
	Latitude  float64 `query:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `query:"lng" validate:"gte=-180,lte=180"`
}

type AddressResponse struct {
	Formatted string  `json:"formatted"`
	Street    string  `json:"street,omitempty"`
	City      string  `json:"city,omitempty"`
	Postcode  string  `json:"postcode,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cached    bool    `json:"cached"`
}
