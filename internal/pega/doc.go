// Package pega runs case-management operations against a Pega application
// through the DX REST API.
//
// A Client authenticates each call through an Authenticator (normally an
// oauth.Provider) and reports the result as an api.Outcome: either the
// success text shown to the conversational layer or a classified
// api.Failure. Operations never panic and never return Go errors.
//
//	client := pega.NewClient(cfg, pega.WithMetrics(recorder))
//	outcome := client.ListCaseTypes(ctx)
//	if !outcome.OK() {
//	    fmt.Println(outcome.Failure().Text())
//	}
//
// Every request carries an X-Request-ID header so calls can be correlated
// with platform logs. A 401 from the API discards the cached token so the
// next call authenticates again.
package pega
