package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PackageLevel rango ordinal de un paquete VIP. Se persiste como entero 0..4.
type PackageLevel int

const (
	LevelBasic PackageLevel = iota
	LevelSilver
	LevelGold
	LevelPlatinum
	LevelDiamond
)

var packageLevelLabels = []struct {
	level PackageLevel
	label string
}{
	{LevelBasic, "BASIC"},
	{LevelSilver, "SILVER"},
	{LevelGold, "GOLD"},
	{LevelPlatinum, "PLATINUM"},
	{LevelDiamond, "DIAMOND"},
}

// PackageLevelLabels etiquetas válidas en orden de rango.
func PackageLevelLabels() []string {
	out := make([]string, 0, len(packageLevelLabels))
	for _, l := range packageLevelLabels {
		out = append(out, l.label)
	}
	return out
}

// ParsePackageLevel convierte una etiqueta (BASIC..DIAMOND) en su rango.
func ParsePackageLevel(label string) (PackageLevel, bool) {
	for _, l := range packageLevelLabels {
		if l.label == label {
			return l.level, true
		}
	}
	return 0, false
}

// String devuelve la etiqueta del rango.
func (p PackageLevel) String() string {
	for _, l := range packageLevelLabels {
		if l.level == p {
			return l.label
		}
	}
	return fmt.Sprintf("LEVEL_%d", int(p))
}

// Valid informa si el rango pertenece al conjunto cerrado.
func (p PackageLevel) Valid() bool {
	return p >= LevelBasic && p <= LevelDiamond
}

// ValidatePackageLevels comprueba que la tabla etiqueta↔rango es biyectiva y contigua.
// Se llama al arrancar la aplicación.
func ValidatePackageLevels() error {
	seenLabel := make(map[string]bool, len(packageLevelLabels))
	for i, l := range packageLevelLabels {
		if int(l.level) != i {
			return fmt.Errorf("nivel %s: rango %d, se esperaba %d", l.label, l.level, i)
		}
		if l.label == "" || seenLabel[l.label] {
			return fmt.Errorf("etiqueta de nivel vacía o duplicada: %q", l.label)
		}
		seenLabel[l.label] = true
		back, ok := ParsePackageLevel(l.label)
		if !ok || back != l.level {
			return fmt.Errorf("nivel %s no es reversible", l.label)
		}
	}
	return nil
}

// VipPackage entrada del catálogo de paquetes de visibilidad.
type VipPackage struct {
	ID          string
	Name        string
	Description string
	NumPost     int
	Price       decimal.Decimal
	DurationDay int
	Priority    PackageLevel
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
