package core

import "physiconf/pkg/domain"

type (
	Substrate         = domain.Substrate
	CellType          = domain.CellType
	Phenotype         = domain.Phenotype
	Rule              = domain.Rule
	Ruleset           = domain.Ruleset
	CustomVariable    = domain.CustomVariable
	Secretion         = domain.Secretion
	DeathKind         = domain.DeathKind
	StoredDocument    = domain.StoredDocument
	DocumentStore     = domain.DocumentStore
	ErrNotFound       = domain.ErrNotFound
	ErrDuplicateKey   = domain.ErrDuplicateKey
	ErrInvalidValue   = domain.ErrInvalidValue
	ErrUnknownParameter = domain.ErrUnknownParameter
)

const (
	DeathApoptosis = domain.DeathApoptosis
	DeathNecrosis  = domain.DeathNecrosis
)
