package catalog

import "github.com/okian/raidstats/internal/domain/model"

// Grey is returned for anything without a dedicated colour.
const Grey = "#B2B2B2"

// SkillColour picks a chart colour from a skill's class, falling back to its
// tree for non-class skills.
func SkillColour(s model.Skill) string {
	if s.Class == nil {
		return Grey
	}
	switch *s.Class {
	case "Arcanist":
		return "#9ACD32"
	case "Dragonknight":
		return "#FF8C00"
	case "Nightblade":
		return "#AA0000"
	case "Templar":
		return "#FFD700"
	case "Sorcerer":
		return "#1E90FF"
	case "Warden":
		return "#228B22"
	case "Necromancer":
		return "#8A2BE2"
	case "Weapon":
		return "#FFE4C4"
	}
	if s.Tree == nil {
		return Grey
	}
	switch *s.Tree {
	case "Vampire":
		return "#8B0000"
	case "Fighters Guild":
		return "#B73700"
	case "Mages Guild":
		return "#4682B4"
	case "Psijic Order":
		return "#008B8B"
	case "Undaunted":
		return "#70B04A"
	case "Assault":
		return "#FA8072"
	case "Support":
		return "#87CEFA"
	case "Soul Magic":
		return "#800080"
	default:
		return Grey
	}
}

// SetColour picks a chart colour for a set id. Base and perfected variants
// share a colour.
func SetColour(s model.ItemSet) string {
	switch s.ID {
	case 83, 338: // Elf Bane, Flame Blossom
		return "#CF6A32"
	case 127, 470: // Deadly Strike, New Moon Acolyte
		return "#476291"
	case 137:
		return "#D32CE6"
	case 292:
		return "#8650AC"
	case 304, 586, 589: // Medusa, Sul-Xan's Torment
		return "#70B04A"
	case 336:
		return "#A32C2E"
	case 353, 646, 653: // Mechanical Acuity, Whorl of the Depths
		return "#4B69FF"
	case 389, 393:
		return "#FFD700"
	case 390, 394, 764: // Mantle of Siroria, Highland Sentinel
		return "#F4A460"
	case 430:
		return "#DAA520"
	case 444, 449:
		return "#00BFFF"
	case 445, 450:
		return "#B22222"
	case 455:
		return "#6B8E23"
	case 456:
		return "#007FFF"
	case 475:
		return "#AA0000"
	case 570:
		return "#38F3AB"
	case 584:
		return "#48D1CC"
	case 587, 591:
		return "#50A7FC"
	case 647, 652:
		return "#96DA43"
	case 684:
		return "#FF4500"
	case 702, 707:
		return "#2F4F4F"
	case 767, 772:
		return "#E4AE33"
	case 777:
		return "#8847FF"
	case 809:
		return "#8FBC8F"
	case 168, 169, 170, 257, 273, 274, 275, 279, 280, 342, 350, 458, 459: // monster sets
		return "#B0C4DE"
	case 270:
		return "#4D7942"
	case 373, 526:
		return "#99CCFF"
	case 369, 522:
		return "#FFC0CB"
	case 372, 525, 367, 361, 316, 531, 413, 425, 371, 524: // arena weapons
		return "#FFE4C4"
	case 501, 503, 505, 519, 520, 521, 575, 576, 593, 594, 596, 597, 625, 626, 627,
		654, 655, 656, 657, 658, 674, 675, 676, 691, 692, 693, 694, 760, 761, 762,
		811, 812, 813, 845: // mythics
		return "#FF8200"
	default:
		return Grey
	}
}
