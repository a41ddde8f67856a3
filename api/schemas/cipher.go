package schemas

import "time"

// -- Credential Record Schemas --
//
// A CipherView is a fully decrypted credential record handed to the engine
// by the vault layer. It is a tagged union: Type selects which of the
// per-kind sub-records is populated, and generation dispatches on it
// exhaustively.

// CipherType tags the credential kind.
type CipherType int

const (
	CipherTypeLogin      CipherType = 1
	CipherTypeSecureNote CipherType = 2
	CipherTypeCard       CipherType = 3
	CipherTypeIdentity   CipherType = 4
	CipherTypeSSHKey     CipherType = 5
)

// CipherRepromptType marks credentials requiring re-authentication before
// their values may be used. Enforcement happens before the engine is
// invoked; the orchestrator only refuses to auto-trigger on it.
type CipherRepromptType int

const (
	RepromptNone     CipherRepromptType = 0
	RepromptPassword CipherRepromptType = 1
)

// CustomFieldType tags user-defined cipher fields.
type CustomFieldType int

const (
	CustomFieldText    CustomFieldType = 0
	CustomFieldHidden  CustomFieldType = 1
	CustomFieldBoolean CustomFieldType = 2
	CustomFieldLinked  CustomFieldType = 3
)

// CustomField is a user-defined name/value pair attached to a cipher.
// Value is a pointer so an unset boolean field (nil) can be distinguished
// from an explicit empty string.
type CustomField struct {
	Name  string          `json:"name"`
	Value *string         `json:"value"`
	Type  CustomFieldType `json:"type"`
}

// LoginURI is one of the URIs a login cipher is associated with.
type LoginURI struct {
	URI string `json:"uri"`
}

// LoginView holds the decrypted attributes of a login cipher.
type LoginView struct {
	Username string     `json:"username,omitempty"`
	Password string     `json:"password,omitempty"`
	Totp     string     `json:"totp,omitempty"`
	URIs     []LoginURI `json:"uris,omitempty"`
}

// CardView holds the decrypted attributes of a payment card cipher.
type CardView struct {
	CardholderName string `json:"cardholderName,omitempty"`
	Brand          string `json:"brand,omitempty"`
	Number         string `json:"number,omitempty"`
	ExpMonth       string `json:"expMonth,omitempty"`
	ExpYear        string `json:"expYear,omitempty"`
	Code           string `json:"code,omitempty"`
}

// IdentityView holds the decrypted attributes of an identity cipher.
type IdentityView struct {
	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	Address3   string `json:"address3,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Company    string `json:"company,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	SSN        string `json:"ssn,omitempty"`
	Username   string `json:"username,omitempty"`
}

// SecureNoteView is intentionally empty: notes carry no fillable fields.
type SecureNoteView struct{}

// SSHKeyView holds the decrypted attributes of an SSH key cipher. None of
// them are fillable into web forms.
type SSHKeyView struct {
	PublicKey   string `json:"publicKey,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// LocalData tracks client-side usage timestamps for a cipher.
type LocalData struct {
	LastUsed     time.Time `json:"lastUsed,omitempty"`
	LastLaunched time.Time `json:"lastLaunched,omitempty"`
}

// CipherView is the decrypted credential record. Exactly one of the
// per-kind pointers matching Type is expected to be non-nil.
type CipherView struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name,omitempty"`
	Type                CipherType         `json:"type"`
	Reprompt            CipherRepromptType `json:"reprompt,omitempty"`
	OrganizationUseTotp bool               `json:"organizationUseTotp,omitempty"`

	Login      *LoginView      `json:"login,omitempty"`
	Card       *CardView       `json:"card,omitempty"`
	Identity   *IdentityView   `json:"identity,omitempty"`
	SecureNote *SecureNoteView `json:"secureNote,omitempty"`
	SSHKey     *SSHKeyView     `json:"sshKey,omitempty"`

	Fields    []CustomField `json:"fields,omitempty"`
	LocalData *LocalData    `json:"-"`
}
