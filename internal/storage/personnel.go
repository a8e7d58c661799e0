package storage

import "time"

type Person struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	Username     string `json:"username,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Public strips the credential hash before the record leaves the server.
func (p Person) Public() Person {
	p.PasswordHash = ""
	return p
}

type Machine struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	CurrentStatus   MachineStatus `json:"currentStatus"`
	StatusReason    string        `json:"statusReason"`
	StatusStartTime Date          `json:"statusStartTime"`
}

// WorkshopLayout is the floor map. There is exactly one, stored under
// a fixed id.
type WorkshopLayout struct {
	ID         string      `json:"id"`
	Placements []Placement `json:"placements"`
}

type Placement struct {
	MachineID string  `json:"machineId"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

type Session struct {
	Token     string    `json:"token"`
	PersonID  string    `json:"personId"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
