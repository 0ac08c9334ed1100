package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	funding "github.com/JakeHartnell/cw-quadratic-funding"
	"github.com/JakeHartnell/cw-quadratic-funding/coin"
	"github.com/JakeHartnell/cw-quadratic-funding/x/qfund"
)

func TestRunRoundReferenceScenario(t *testing.T) {
	admin := funding.NewCondition("test", "mock", []byte("admin"))
	leftover := funding.NewCondition("test", "mock", []byte("leftover"))

	newActor := func(name string) funding.Condition {
		return funding.NewCondition("test", "mock", []byte(name))
	}

	budget := uint64(550000)
	conf := qfund.Configuration{
		Admin:            admin.Address(),
		LeftoverAddress:  leftover.Address(),
		ProposalDeadline: 1000,
		VotingDeadline:   2000,
		BudgetDenom:      "ucosm",
		Budget:           &budget,
		Algorithm: qfund.Algorithm{
			CapitalConstrainedLiberalRadicalism: &qfund.CapitalConstrainedLiberalRadicalism{},
		},
	}

	contributions := [][]uint64{
		{1200, 44999, 33},
		{30000, 58999},
		{230000, 100},
		{100000, 5},
	}

	var (
		wallets []map[string]interface{}
		actions []action
	)
	for i := range contributions {
		author := newActor(fmt.Sprintf("author-%d", i))
		actions = append(actions, action{
			Time:   500,
			Signer: author,
			CreateProposal: &createProposal{
				Title:       fmt.Sprintf("proposal %d", i+1),
				Description: "a grant proposal",
				FundAddress: author.Address(),
			},
		})
	}
	for i, amounts := range contributions {
		for j, amount := range amounts {
			voter := newActor(fmt.Sprintf("voter-%d-%d", i, j))
			wallets = append(wallets, map[string]interface{}{
				"address": voter.Address(),
				"coins":   []coin.Coin{coin.NewCoin(amount, "ucosm")},
			})
			actions = append(actions, action{
				Time:   1500,
				Signer: voter,
				Vote: &vote{
					ProposalID: uint64(i + 1),
					Funds:      coin.NewCoin(amount, "ucosm"),
				},
			})
		}
	}
	actions = append(actions, action{
		Time:       2500,
		Signer:     admin,
		Distribute: &struct{}{},
	})

	raw, err := json.Marshal(map[string]interface{}{
		"conf":  map[string]interface{}{"qfund": conf},
		"cash":  wallets,
		"round": actions,
	})
	if err != nil {
		t.Fatalf("marshal round description: %+v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	report, err := runRound(logger, raw)
	if err != nil {
		t.Fatalf("run round: %+v", err)
	}

	// Matched amounts plus the returned contributions, and the budget
	// remainder on the leftover address.
	for _, want := range []string{
		"106444 ucosm",
		"253601 ucosm",
		"458637 ucosm",
		"196653 ucosm",
		"1 ucosm",
		"0 ucosm",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report misses %q:\n%s", want, report)
		}
	}
}

func TestRunRoundRejectsBrokenDescription(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if _, err := runRound(logger, []byte("not json")); err == nil {
		t.Fatal("garbage input must fail")
	}
	// A description without the round configuration cannot initialize.
	if _, err := runRound(logger, []byte(`{"round": []}`)); err == nil {
		t.Fatal("missing configuration must fail")
	}
}
