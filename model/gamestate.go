package model

// GameState is one tick's read-only view of the world as reported by the mod.
type GameState struct {
	Tick              int         `json:"tick"`
	Player            string      `json:"player"`
	Units             []Unit      `json:"units"`
	Hostiles          []Unit      `json:"hostiles"`
	Structures        []Structure `json:"structures"`
	HostileStructures []Structure `json:"hostileStructures"`
	MapWidth          int         `json:"mapWidth"`
	MapHeight         int         `json:"mapHeight"`
	Territory         *Rect       `json:"territory,omitempty"`
}

// Unit is a combat unit, ours or hostile. Hostile units never carry Memory.
type Unit struct {
	ID          int            `json:"id"`
	Type        string         `json:"type"`
	Owner       string         `json:"owner,omitempty"`
	Role        string         `json:"role,omitempty"`
	Group       string         `json:"group,omitempty"`   // "pair", "squad" or solo
	Theater     string         `json:"theater,omitempty"` // objective this unit operates against
	X           int            `json:"x"`
	Y           int            `json:"y"`
	Hits        int            `json:"hits"`
	HitsMax     int            `json:"hitsMax"`
	TicksToLive *int           `json:"ticksToLive,omitempty"` // nil while spawning
	Body        []BodyPart     `json:"body"`
	Memory      map[string]any `json:"memory,omitempty"`
}

func (u Unit) TypeName() string { return u.Type }
func (u Unit) Pos() Position    { return Position{X: u.X, Y: u.Y} }

// BodyPart is one part of a unit body. Parts with zero hits are destroyed and
// contribute nothing. Boost multiplies the part's effect; zero means unboosted.
type BodyPart struct {
	Type  string  `json:"type"`
	Hits  int     `json:"hits"`
	Boost float64 `json:"boost,omitempty"`
}

type Structure struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Owner   string `json:"owner,omitempty"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Hits    int    `json:"hits"`
	HitsMax int    `json:"hitsMax"`
}

func (s Structure) TypeName() string { return s.Type }
func (s Structure) Pos() Position    { return Position{X: s.X, Y: s.Y} }
