package tvspielfilm

import "github.com/Guilhem-Bonnet/tv-programm/internal/icons"

const (
	IconSpriteURL = "https://a2.tvspielfilm.de/images/tv/sender/mini/sprite_web_optimized_1616508904.webp"
	IconSize      = 44
)

// iconOrder suit l'ordre des tuiles du sprite, de haut en bas.
var iconOrder = []string{
	"Das Erste",
	"ZDF",
	"RTL",
	"SAT.1",
	"ProSieben",
	"kabel eins",
	"RTL II",
	"VOX",
	"TELE 5",
	"3sat",
	"ARTE",
	"ZDFneo",
	"ONE",
	"ServusTV Deutschland",
	"NITRO",
	"DMAX",
	"sixx",
	"SAT.1 Gold",
	"ProSieben MAXX",
	"COMEDY CENTRAL",
	"RTLplus",
	"WDR",
	"NDR",
	"BR",
	"SWR/SR",
	"HR",
	"MDR",
	"RBB",
	"tv.berlin",
}

// IconEntries renvoie la table statique des icônes de chaînes connues.
func IconEntries() []icons.Entry {
	return icons.SpriteEntries(IconSpriteURL, IconSize, iconOrder)
}
