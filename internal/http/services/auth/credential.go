package auth

// Credential es la variante etiquetada que produce la capa HTTP.
// Solo PasswordCredential y ExternalTokenCredential la implementan.
type Credential interface {
	Method() string
}

const (
	MethodPassword = "password"
	MethodExternal = "external"
	MethodBasic    = "basic"
)

// PasswordCredential: login local usuario/contraseña.
type PasswordCredential struct {
	Username string
	Password string
}

func (PasswordCredential) Method() string { return MethodPassword }

// ExternalTokenCredential: access token emitido por un identity provider.
// Provider vacío usa el provider por defecto.
type ExternalTokenCredential struct {
	Provider    string
	AccessToken string
}

func (ExternalTokenCredential) Method() string { return MethodExternal }
