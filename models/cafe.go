package models

type Cafe struct {
	ID           int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string  `json:"name" gorm:"type:varchar(250);uniqueIndex;not null"`
	MapURL       string  `json:"map_url" gorm:"column:map_url;type:varchar(500);not null"`
	ImgURL       string  `json:"img_url" gorm:"column:img_url;type:varchar(500);not null"`
	Location     string  `json:"location" gorm:"type:varchar(250);not null"`
	Seats        string  `json:"seats" gorm:"type:varchar(250);not null"`
	HasToilet    bool    `json:"has_toilet" gorm:"not null"`
	HasWifi      bool    `json:"has_wifi" gorm:"not null"`
	HasSockets   bool    `json:"has_sockets" gorm:"not null"`
	CanTakeCalls bool    `json:"can_take_calls" gorm:"not null"`
	CoffeePrice  *string `json:"coffee_price" gorm:"type:varchar(250)"`
}

// TableName keeps the table compatible with existing cafes.db files.
func (Cafe) TableName() string {
	return "cafe"
}
