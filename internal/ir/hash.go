package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainProgram     = "anchorix/program/v1"
	DomainInstruction = "anchorix/instruction/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProgramHash computes the content-addressed identity of a scanned program.
// Two scans of unchanged source produce the same hash.
func ProgramHash(p Program) (string, error) {
	canonical, err := MarshalCanonical(p.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("ProgramHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}

// InstructionHash computes the identity of a single instruction.
func InstructionHash(ix Instruction) (string, error) {
	canonical, err := MarshalCanonical(ix.CanonicalMap())
	if err != nil {
		return "", fmt.Errorf("InstructionHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInstruction, canonical), nil
}

// MustProgramHash is like ProgramHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustProgramHash(p Program) string {
	h, err := ProgramHash(p)
	if err != nil {
		panic(err)
	}
	return h
}
