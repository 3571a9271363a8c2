// Package curves names the parameter sets the authority and the CLI can load.
package curves

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/bls"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/pairing/supersingular"
)

// Name identifies a parameter set.
type Name string

const (
	// Toy83 is y^2 = x^3 + x over F_83 with a generator of order 7. Only for tests and demos.
	Toy83 Name = "toy83"
	// SS65 is y^2 = x^3 + x over a 65 bit prime with the subgroup order 2^61 - 2^5 + 1.
	SS65 Name = "ss65"
	// BLS12381 is the BLS12-381 diagonal subgroup.
	BLS12381 Name = "bls12381"
)

// Default is the parameter set used when none is configured.
const Default = BLS12381

// Curve bundles everything Setup needs from a parameter set.
type Curve struct {
	Name       Name
	Engine     pairing.Engine
	Generator  pairing.Point
	Order      *big.Int
	Distortion pairing.DistortionMap
}

type supersingularParams struct {
	q, h, r      string
	exp2, exp1   int
	sign1, sign0 int
	x, y         string
}

// Both sets are pbc type A curves with a Solinas prime subgroup order.
var supersingularSets = map[Name]supersingularParams{
	Toy83: {
		q: "83", h: "12", r: "7",
		exp2: 3, exp1: 1, sign1: -1, sign0: 1,
		x: "69", y: "8",
	},
	SS65: {
		q: "27670116110564327051", h: "12", r: "2305843009213693921",
		exp2: 61, exp1: 5, sign1: -1, sign0: 1,
		x: "16651254928914396281", y: "17323940802913270992",
	},
}

// Names lists every supported parameter set.
func Names() []string {
	out := []string{string(BLS12381)}
	for name := range supersingularSets {
		out = append(out, string(name))
	}
	sort.Strings(out)
	return out
}

// Load builds a fresh engine and generator for name.
func Load(name string) (*Curve, error) {
	switch n := Name(strings.ToLower(strings.TrimSpace(name))); n {
	case "":
		return Load(string(Default))
	case BLS12381:
		e := bls.NewEngine()
		return &Curve{
			Name:       n,
			Engine:     e,
			Generator:  bls.Generator,
			Order:      e.GroupOrder(),
			Distortion: e.Distortion(),
		}, nil
	default:
		params, ok := supersingularSets[n]
		if !ok {
			return nil, fmt.Errorf("unknown curve %q (supported: %s)", name, strings.Join(Names(), ", "))
		}
		return loadSupersingular(n, params)
	}
}

func loadSupersingular(name Name, params supersingularParams) (*Curve, error) {
	typeA := &supersingular.TypeA{
		Q:     mustInt(params.q),
		H:     mustInt(params.h),
		R:     mustInt(params.r),
		Exp2:  params.exp2,
		Exp1:  params.exp1,
		Sign1: params.sign1,
		Sign0: params.sign0,
	}
	e, err := supersingular.NewEngine(typeA)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s engine: %w", name, err)
	}
	g, err := e.NewPoint(mustInt(params.x), mustInt(params.y))
	if err != nil {
		return nil, fmt.Errorf("invalid %s generator: %w", name, err)
	}
	return &Curve{
		Name:       name,
		Engine:     e,
		Generator:  g,
		Order:      new(big.Int).Set(typeA.R),
		Distortion: e.Distortion(),
	}, nil
}

func mustInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("curves: invalid integer constant %q", s))
	}
	return v
}
