package profile_test

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testEnv() config.DefaultProfileEnv {
	return config.DefaultProfileEnv{
		AdminAddress:    "0xenvaddr",
		AdminPrivateKey: "0xenvkey",
		RPCURL:          "http://localhost:5050",
		ToriiURL:        "http://localhost:8080",
		WorldAddress:    "0xenvworld",
		GameContract:    "0xgame",
	}
}

// newTestService returns a service over an in-memory store with
// deterministic ids ("p1", "p2", ...) and a fixed clock.
func newTestService(store profile.Store) *profile.Service {
	var n atomic.Int64
	repo := profile.NewRepository(store, profile.StaticEnv(testEnv()), nil)
	return profile.NewService(repo,
		profile.WithClock(func() time.Time { return fixedNow }),
		profile.WithIDGenerator(func() string { return fmt.Sprintf("p%d", n.Add(1)) }),
	)
}

func prodFields() profile.Fields {
	return profile.Fields{
		Name:            "Prod",
		Description:     "mainnet deployment",
		AdminAddress:    "0xabc123",
		AdminPrivateKey: "0xdef456",
		RPCURL:          "https://rpc.example",
		ToriiURL:        "https://torii.example",
		WorldAddress:    "0x123789",
		Contracts: map[string]string{
			profile.ContractGame:     "0x1111",
			profile.ContractTutorial: "",
		},
	}
}

func stagingFields() profile.Fields {
	f := prodFields()
	f.Name = "Staging"
	f.RPCURL = "https://rpc.staging.example"
	return f
}
