package environment

import "fmt"

// Profile is a Record together with the deployment it belongs to.
type Profile struct {
	Target Target
	// AppOrigin is the scheme and host the front-end is served from.
	AppOrigin string
	Record    Record
}

// Production coordinates. Each may be replaced at link time, for example:
//
//	go build -tags production \
//	  -ldflags "-X github.com/eugenenazirov/coffee-shop-env/internal/environment.productionAPIServerURL=https://api.example.org/"
var (
	productionAPIServerURL = "https://coffee-shop.example.com/api/"
	productionAppOrigin    = "https://coffee-shop.example.com"
	productionAuth0URL     = "dev--mvz-3ey.us"
	productionAudience     = "Shop"
	productionClientID     = "hVI8A7rQYAZieT6vUS0pBFp0Mfv0iCmE"
	productionCallbackURL  = "https://coffee-shop.example.com/tabs/user-page"
)

func developmentProfile() Profile {
	return Profile{
		Target:    Development,
		AppOrigin: "https://localhost:8100",
		Record: Record{
			Production:   false,
			APIServerURL: "http://127.0.0.1:5000/",
			Auth0: Auth0{
				URL:         "dev--mvz-3ey.us",
				Audience:    "Shop",
				ClientID:    "hVI8A7rQYAZieT6vUS0pBFp0Mfv0iCmE",
				CallbackURL: "https://localhost:8100/tabs/user-page",
			},
		},
	}
}

func productionProfile() Profile {
	return Profile{
		Target:    Production,
		AppOrigin: productionAppOrigin,
		Record: Record{
			Production:   true,
			APIServerURL: productionAPIServerURL,
			Auth0: Auth0{
				URL:         productionAuth0URL,
				Audience:    productionAudience,
				ClientID:    productionClientID,
				CallbackURL: productionCallbackURL,
			},
		},
	}
}

// ProfileFor returns the compiled-in profile of a target. The returned
// value is a fresh copy.
func ProfileFor(target Target) (Profile, error) {
	switch target {
	case Development:
		return developmentProfile(), nil
	case Production:
		return productionProfile(), nil
	default:
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownTarget, string(target))
	}
}
