// Package catalog holds the constant name tables for bosses and partitions
// and the chart colours for skills and sets.
package catalog

import "strconv"

// Fallback names for ids the tables do not know.
const (
	UnknownBoss      = "Unknown Boss"
	UnknownPartition = "Unknown Partition"
)

// BossName returns the encounter name for a boss id.
func BossName(id uint8) string {
	switch id {
	case 4:
		return "The Mage"
	case 8:
		return "The Warrior"
	case 12:
		return "The Serpent"
	case 15:
		return "Rakkhat"
	case 20:
		return "Assembly General"
	case 23:
		return "Saint Olms the Just"
	case 27:
		return "Z'Maja"
	case 43:
		return "Lokkestiiz"
	case 44:
		return "Yolnahkriin"
	case 45:
		return "Nahviintaas"
	case 46:
		return "Yandir the Butcher"
	case 47:
		return "Captain Vrol"
	case 48:
		return "Lord Falgravn"
	case 49:
		return "Oaxiltso"
	case 50:
		return "Flame-Herald Bahsei"
	case 51:
		return "Xalvakka"
	case 52:
		return "Lylanar and Turlassil"
	case 53:
		return "Reef Guardian"
	case 54:
		return "Tideborn Taleria"
	case 55:
		return "Exarchanic Yaseyla"
	case 56:
		return "Archwizard Twelvane and Chimera"
	case 57:
		return "Ansuul the Tormentor"
	case 58:
		return "Count Ryelaz and Zilyesset"
	case 59:
		return "Orphic Shattered Shard"
	case 60:
		return "Xoryn"
	case 61:
		return "Hall of Fleshcraft"
	case 62:
		return "Jynorah and Skorkhif"
	case 63:
		return "Overfiend Kazpian"
	default:
		return UnknownBoss
	}
}

// firstUpdate is the game update number of partition 1.
const firstUpdate = 22

var partitions = [...]string{
	"Elsweyr",
	"Scalebreaker",
	"Dragonhold",
	"Harrowstorm",
	"Greymoor",
	"Stonethorn",
	"Markarth",
	"Flames of Ambition",
	"Blackwood",
	"Waking Flame",
	"Deadlands",
	"Ascending Tide",
	"High Isle",
	"Lost Depths",
	"Firesong",
	"Scribes of Fate",
	"Necrom",
	"Free Update",
	"Infinite Archive",
	"Scions of Ithelia",
	"Gold Road",
	"Home Tours",
	"Golden Pursuits",
	"Fallen Banners",
	"Western Solstice",
	"Feast of Shadows",
	"Eastern Solstice",
}

// Partition describes one content era.
type Partition struct {
	ID     uint8
	Name   string
	Update string
}

// PartitionName returns e.g. "Elsweyr (Update 22)" for partition 1.
func PartitionName(id uint8) string {
	if !knownPartition(id) {
		return UnknownPartition
	}
	return partitions[id-1] + " (Update " + PartitionUpdate(id) + ")"
}

// PartitionUpdate returns the game update number of a partition as text.
func PartitionUpdate(id uint8) string {
	if !knownPartition(id) {
		return UnknownPartition
	}
	return strconv.Itoa(int(id) - 1 + firstUpdate)
}

// Describe returns the full description of a partition id.
func Describe(id uint8) Partition {
	return Partition{ID: id, Name: PartitionName(id), Update: PartitionUpdate(id)}
}

// Partitions returns every known partition in id order.
func Partitions() []Partition {
	out := make([]Partition, len(partitions))
	for i := range partitions {
		out[i] = Describe(uint8(i + 1))
	}
	return out
}

func knownPartition(id uint8) bool {
	return id >= 1 && int(id) <= len(partitions)
}
