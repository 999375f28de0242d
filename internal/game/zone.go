package game

import "time"

// Zone is a body region a spoken command can target.
type Zone int

const (
	ZoneHead Zone = iota
	ZoneBody
	ZoneLegs

	ZoneCount = 3
)

// zoneProfile holds the fixed gameplay values for a zone. Damage doubles as
// the score value; there is no separate scoring table.
type zoneProfile struct {
	Damage int
	Offset Vec3 // zone-local offset from the enemy's anchor position
}

var zoneProfiles = [ZoneCount]zoneProfile{
	ZoneHead: {Damage: 100, Offset: Vec3{Y: 1.6}},
	ZoneBody: {Damage: 50, Offset: Vec3{Y: 1.0}},
	ZoneLegs: {Damage: 25, Offset: Vec3{Y: 0.4}},
}

// Damage returns the damage (and score) value for the zone.
func (z Zone) Damage() int {
	return zoneProfiles[z].Damage
}

// Offset returns the zone-local offset from the enemy anchor.
func (z Zone) Offset() Vec3 {
	return zoneProfiles[z].Offset
}

func (z Zone) String() string {
	switch z {
	case ZoneHead:
		return "head"
	case ZoneBody:
		return "body"
	case ZoneLegs:
		return "legs"
	default:
		return "unknown"
	}
}

// Intent is a debounced, recognized spoken command. By the time an Intent
// reaches the session it has already passed the recognizer's cooldown gate.
type Intent struct {
	Zone Zone
	At   time.Time
}
