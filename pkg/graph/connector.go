package graph

import "fmt"

// ConnectorType defines the physical kind of road segment joining two rooms.
type ConnectorType int

const (
	TypeRoad   ConnectorType = iota // Maintained road, safe and fast
	TypeTrail                       // Unmaintained trail, slower
	TypeBridge                      // Crosses water
	TypeFerry                       // Crosses water without a bridge
)

// String returns the string representation of a ConnectorType.
func (c ConnectorType) String() string {
	switch c {
	case TypeRoad:
		return "Road"
	case TypeTrail:
		return "Trail"
	case TypeBridge:
		return "Bridge"
	case TypeFerry:
		return "Ferry"
	default:
		return fmt.Sprintf("Unknown(%d)", c)
	}
}

// Connector represents an edge in the road graph.
type Connector struct {
	ID            string        `json:"id"`
	From          string        `json:"from"` // Room ID
	To            string        `json:"to"`   // Room ID
	Type          ConnectorType `json:"type"`
	Cost          float64       `json:"cost"` // Pathfinding weight (1.0 = normal)
	Bidirectional bool          `json:"bidirectional"`
}

// Validate checks if the connector data is valid.
// Note: This does not validate that From and To room IDs exist in the graph,
// as that validation is done by the Graph when adding the connector.
func (c *Connector) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("connector ID cannot be empty")
	}

	if c.From == "" {
		return fmt.Errorf("connector %s: From room ID cannot be empty", c.ID)
	}

	if c.To == "" {
		return fmt.Errorf("connector %s: To room ID cannot be empty", c.ID)
	}

	if c.From == c.To {
		return fmt.Errorf("connector %s: From and To must be different (no self-loops), got %s", c.ID, c.From)
	}

	if c.Cost <= 0.0 {
		return fmt.Errorf("connector %s: Cost must be > 0.0, got %f", c.ID, c.Cost)
	}

	return nil
}

// String returns a human-readable representation of the Connector.
func (c *Connector) String() string {
	direction := "↔"
	if !c.Bidirectional {
		direction = "→"
	}
	return fmt.Sprintf("Connector[%s: %s %s %s (%s, Cost=%.2f)]",
		c.ID, c.From, direction, c.To, c.Type, c.Cost)
}
