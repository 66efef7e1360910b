package rbac

import "context"

type credentialContextKey struct{}

// ContextWithCredential stores the verified credential in context.
func ContextWithCredential(ctx context.Context, cred *Credential) context.Context {
	return context.WithValue(ctx, credentialContextKey{}, cred)
}

// CredentialFromContext extracts the credential from context, nil when absent.
func CredentialFromContext(ctx context.Context) *Credential {
	cred, _ := ctx.Value(credentialContextKey{}).(*Credential)
	return cred
}
