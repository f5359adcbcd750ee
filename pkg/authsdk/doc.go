/*
Package authsdk is a Go client for the dashboard authentication API, plus the
request, response and error types shared with the server.

# Clients and sessions

An SDKClient talks to unauthenticated endpoints. Logging in with a LINE ID
token returns a Session that carries the issued session credential:

	client := authsdk.NewSDKClient("https://dashboard.example.com")

	session, err := client.Login(ctx, authsdk.LoginRequest{IDToken: idToken})
	if err != nil {
		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			// not whitelisted, or the token was rejected
		}
	}

	me, err := session.Me(ctx)
	me, err = session.UpdateProfile(ctx, "Ms. Alice")
	err = session.Logout(ctx)

Sessions send the credential as a Bearer token. The server accepts the same
credential from the lec_auth cookie, which is what browsers use.

# Errors

Non-2xx responses are returned as *APIError carrying the HTTP status, the
error code and the description written by the server.
*/
package authsdk
