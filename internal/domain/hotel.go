package domain

import "strings"

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}

type Room struct {
	Audit
	Owned
	Name        string     `json:"name"`
	RoomType    string     `json:"room_type"`
	Floor       int        `json:"floor"`
	Capacity    int        `json:"capacity"`
	Price       float64    `json:"price"`
	Status      RoomStatus `json:"status"`
	Description *string    `json:"description"`
}

func (r *Room) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("name", "required")
	}
	if strings.TrimSpace(r.RoomType) == "" {
		return invalid("room_type", "required")
	}
	if r.Capacity < 1 {
		return invalid("capacity", "must be at least 1")
	}
	if r.Price < 0 {
		return invalid("price", "must not be negative")
	}
	if r.Status == "" {
		r.Status = RoomAvailable
	}
	if !r.Status.Valid() {
		return invalid("status", "unknown room status")
	}
	return nil
}

// Facility is a tenant-wide amenity (pool, gym, parking...).
type Facility struct {
	Audit
	Owned
	Name        string  `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
}

func (f *Facility) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "required")
	}
	return nil
}

type ServiceUnit string

const (
	PerItem   ServiceUnit = "item"
	PerPerson ServiceUnit = "person"
	PerNight  ServiceUnit = "night"
)

// Service is a billable extra (spa, airport pickup, breakfast).
type Service struct {
	Audit
	Owned
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Unit        ServiceUnit `json:"unit"`
	Description *string     `json:"description"`
	IsActive    bool        `json:"is_active"`
}

func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("name", "required")
	}
	if s.Price < 0 {
		return invalid("price", "must not be negative")
	}
	switch s.Unit {
	case "":
		s.Unit = PerItem
	case PerItem, PerPerson, PerNight:
	default:
		return invalid("unit", "must be item, person or night")
	}
	return nil
}
