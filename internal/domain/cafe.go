package domain

// Cafe Model
type Cafe struct {
	ID           uint    `gorm:"primaryKey" json:"id"`                      // Primary key
	Name         string  `gorm:"size:250;uniqueIndex;not null" json:"name"` // Unique cafe name
	MapURL       string  `gorm:"size:500;not null" json:"map_url"`          // Link to a map
	ImgURL       string  `gorm:"size:500;not null" json:"img_url"`          // Link to a photo
	Location     string  `gorm:"size:250;not null" json:"location"`         // Free-text location
	HasSockets   bool    `gorm:"not null" json:"has_sockets"`               // Power sockets available
	HasToilet    bool    `gorm:"not null" json:"has_toilet"`                // Toilet available
	HasWifi      bool    `gorm:"not null" json:"has_wifi"`                  // Wifi available
	CanTakeCalls bool    `gorm:"not null" json:"can_take_calls"`            // Phone calls allowed
	Seats        string  `gorm:"size:250;not null" json:"seats"`            // Seat count range
	CoffeePrice  *string `gorm:"size:250" json:"coffee_price"`              // Optional price text
}

// ToMap returns the field mapping exposed to clients
func (c Cafe) ToMap() map[string]any {
	var price any // nil encodes as null
	if c.CoffeePrice != nil {
		price = *c.CoffeePrice
	}
	return map[string]any{
		"id":             c.ID,
		"name":           c.Name,
		"map_url":        c.MapURL,
		"img_url":        c.ImgURL,
		"location":       c.Location,
		"has_sockets":    c.HasSockets,
		"has_toilet":     c.HasToilet,
		"has_wifi":       c.HasWifi,
		"can_take_calls": c.CanTakeCalls,
		"seats":          c.Seats,
		"coffee_price":   price,
	}
}
