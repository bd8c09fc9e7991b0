package providers

import (
	"net/http"
	"strings"
)

// endpoint is the resolved connection data shared by every provider
// implementation.
type endpoint struct {
	apiKey       string
	apiBase      string
	defaultModel string
	extraHeaders map[string]string
	gateway      *ProviderSpec // non-nil for gateway/local providers
	spec         *ProviderSpec // non-nil for standard providers
}

func newEndpoint(p Params) endpoint {
	gateway := FindGateway(p.ProviderName, p.APIKey, p.APIBase)

	var spec *ProviderSpec
	if gateway == nil {
		spec = FindByName(p.ProviderName)
		if spec == nil || spec.Name == "custom" {
			if s := FindByModel(p.DefaultModel); s != nil {
				spec = s
			}
		}
	}

	// Resolve effective API base.
	base := p.APIBase
	if base == "" {
		switch {
		case gateway != nil && gateway.DefaultAPIBase != "":
			base = gateway.DefaultAPIBase
		case spec != nil && spec.DefaultAPIBase != "":
			base = spec.DefaultAPIBase
		default:
			base = "https://api.openai.com/v1"
		}
	}

	return endpoint{
		apiKey:       p.APIKey,
		apiBase:      strings.TrimRight(base, "/"),
		defaultModel: p.DefaultModel,
		extraHeaders: p.ExtraHeaders,
		gateway:      gateway,
		spec:         spec,
	}
}

// native reports whether requests must use the Anthropic Messages API.
func (e endpoint) native() bool {
	if e.gateway != nil {
		return false
	}
	return (e.spec != nil && e.spec.NativeAPI) || strings.Contains(strings.ToLower(e.apiBase), "anthropic.com")
}

func (e endpoint) model(requested string) string {
	if requested == "" {
		requested = e.defaultModel
	}
	return e.resolveModel(requested)
}

// resolveModel strips routing prefixes from the model string so the provider
// API receives the bare model name it expects.
//
// Gateway providers (e.g. OpenRouter) keep the "provider/model" sub-prefix
// because the gateway needs it for routing; only the gateway's own prefix is
// stripped. AiHubMix strips everything down to the bare model name.
//
// Standard providers strip their own provider-name prefix.
func (e endpoint) resolveModel(model string) string {
	if e.gateway != nil {
		if e.gateway.StripModelPrefix {
			if i := strings.LastIndex(model, "/"); i >= 0 {
				return model[i+1:]
			}
			return model
		}
		if pfx := e.gateway.Prefix; pfx != "" {
			full := pfx + "/"
			if strings.HasPrefix(strings.ToLower(model), full) {
				model = model[len(full):]
			}
		}
		return model
	}

	var prefixes []string
	if e.spec != nil {
		prefixes = append(prefixes, e.spec.Prefix, e.spec.Name)
	}
	for _, pfx := range prefixes {
		if pfx == "" {
			continue
		}
		full := pfx + "/"
		if strings.HasPrefix(strings.ToLower(model), full) {
			return model[len(full):]
		}
	}
	// Fallback: strip any unknown provider prefix recognised in registry.
	if before, after, ok := strings.Cut(model, "/"); ok {
		if FindByName(strings.ReplaceAll(strings.ToLower(before), "-", "_")) != nil {
			return after
		}
	}
	return model
}

// temperatureFor applies per-model overrides.
func (e endpoint) temperatureFor(model string, requested float64) float64 {
	spec := e.spec
	if spec == nil {
		spec = FindByModel(model)
	}
	if spec == nil {
		return requested
	}
	lower := strings.ToLower(model)
	for _, ov := range spec.ModelOverrides {
		if strings.Contains(lower, strings.ToLower(ov.Pattern)) {
			return ov.Temperature
		}
	}
	return requested
}

// headerTransport adds configured headers to every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

func friendlyHTTPError(code int, body []byte) string {
	if code == http.StatusTooManyRequests {
		return "rate limit exceeded"
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
