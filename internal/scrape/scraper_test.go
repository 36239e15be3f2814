package scrape

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunManualMode(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testBase + "/mansion/C11111111/": listingPage("9,800万円", "70.0m2", "イースト", "17階 / 地上42階"),
		testBase + "/mansion/C22222222/": listingPage("1億2,000万円", "90.0m2", "ウエスト", "30階 / 地上42階"),
	}}
	svc := NewService(fetcher, Config{
		AutoDiscover: false,
		ManualURLs: []string{
			testBase + "/mansion/C11111111/",
			testBase + "/mansion/C22222222/",
		},
	}, zap.NewNop())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, result.TotalDiscovered)
	// Manual mode never filters by area, so the 90 m² unit stays.
	require.Len(t, result.Valid(), 2)
}

func TestRunAutoDiscoverFiltersByArea(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		testBase + "/mansion/C11111111/": listingPage("9,800万円", "70.0m2", "イースト", "17階",
			"/mansion/C22222222/", "/mansion/C33333333/"),
		testBase + "/mansion/C22222222/": listingPage("1億2,000万円", "90.0m2", "ウエスト", "30階"),
		testBase + "/mansion/C33333333/": listingPage("7,200万円", "65.0m2", "セントラル", "5階"),
	}}
	svc := NewService(fetcher, Config{
		AutoDiscover: true,
		Seeds:        []string{"/mansion/C11111111/"},
		MinArea:      65,
		MaxArea:      80,
		BaseURL:      testBase,
		MaxPages:     50,
	}, zap.NewNop())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, result.TotalDiscovered)
	valid := result.Valid()
	require.Len(t, valid, 2, "the 90 m² unit falls outside [65, 80)")
	for _, p := range valid {
		require.NotEqual(t, "C22222222", p.KanriNo)
	}
}

func TestRunKeepsFailedListingsInResult(t *testing.T) {
	fetcher := &fakeFetcher{
		pages: map[string]string{
			testBase + "/mansion/C11111111/": listingPage("9,800万円", "70.0m2", "イースト", "17階"),
		},
		errs: map[string]error{
			testBase + "/mansion/C22222222/": errors.New("timeout"),
		},
	}
	svc := NewService(fetcher, Config{
		ManualURLs: []string{
			testBase + "/mansion/C11111111/",
			testBase + "/mansion/C22222222/",
		},
	}, zap.NewNop())

	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Valid(), 1)
	failed := result.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, "C22222222", failed[0].KanriNo)
	require.Contains(t, failed[0].Err, "timeout")
}

func TestRunErrorsWhenNothingValid(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{
		testBase + "/mansion/C11111111/": errors.New("connection refused"),
	}}
	svc := NewService(fetcher, Config{
		ManualURLs: []string{testBase + "/mansion/C11111111/"},
	}, zap.NewNop())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no valid listings")
}

func TestRunErrorsWhenDiscoveryFindsNothing(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(fetcher, Config{
		AutoDiscover: true,
		Seeds:        []string{"/company/about/"},
		BaseURL:      testBase,
		MaxPages:     50,
	}, zap.NewNop())

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no listings discovered")
}
