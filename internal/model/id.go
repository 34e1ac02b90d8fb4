package model

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

type IDType string

const (
	IDTypeMission IDType = "msn"
	IDTypeStep    IDType = "step"
	IDTypeWorker  IDType = "wkr"
	IDTypeVehicle IDType = "veh"
	IDTypeSettle  IDType = "stl"
)

var validIDTypes = map[IDType]bool{
	IDTypeMission: true,
	IDTypeStep:    true,
	IDTypeWorker:  true,
	IDTypeVehicle: true,
	IDTypeSettle:  true,
}

var idRegex = regexp.MustCompile(`^(msn|step|wkr|veh|stl)_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func GenerateID(idType IDType) (string, error) {
	if !validIDTypes[idType] {
		return "", fmt.Errorf("invalid ID type: %s", idType)
	}
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return fmt.Sprintf("%s_%s", idType, u.String()), nil
}

// NewID is GenerateID for the fixed set of known types; it panics on an unknown type.
func NewID(idType IDType) string {
	id, err := GenerateID(idType)
	if err != nil {
		panic(err)
	}
	return id
}

func ValidateID(id string) bool {
	return idRegex.MatchString(id)
}

func ParseIDType(id string) (IDType, error) {
	if !ValidateID(id) {
		return "", fmt.Errorf("invalid ID format: %s", id)
	}
	match := idRegex.FindStringSubmatch(id)
	return IDType(match[1]), nil
}
