package token

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/credseal/internal/credential"
	"github.com/dropDatabas3/credseal/internal/keys"
)

func validRecord() credential.Record {
	return credential.Record{
		IssuingCountry: "DE",
		FamilyName:     "Muster",
		GivenName:      "Max",
		DateOfBirth:    "1990-05-12",
		HolderID:       "12345",
		Institution:    "AOK Bayern",
		InstitutionID:  "1234",
		ValidFrom:      "2024-01-01",
		ValidUntil:     "2024-06-01",
		IssuedAt:       "2024-01-01",
	}
}

func testFixture(t *testing.T) (*Signer, *Verifier, *keys.Material) {
	t.Helper()
	schema, err := credential.NewSchema()
	require.NoError(t, err)
	mat, err := keys.Generate(keys.ES256, "prc")
	require.NoError(t, err)
	return NewSigner(schema), NewVerifier(schema), mat
}

func decodeSegment(t *testing.T, seg string) map[string]any {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestSign_TokenShape(t *testing.T) {
	signer, _, mat := testFixture(t)

	signed, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3, "compact serialization has three segments")

	header := decodeSegment(t, parts[0])
	require.Equal(t, "ES256", header["alg"])
	require.Equal(t, "JWT", header["typ"])
	require.Equal(t, mat.KID, header["kid"])

	payload := decodeSegment(t, parts[1])
	require.Equal(t, credential.SchemaID, payload["sid"])
	require.NotEmpty(t, payload["jti"])
	require.Equal(t, "DE", payload["ic"])
	require.Equal(t, "Muster", payload["fn"])

	// Sin claims temporales automáticos: di del record es el único dato
	// temporal del token.
	require.NotContains(t, payload, "iat")
	require.NotContains(t, payload, "exp")
	require.NotContains(t, payload, "nbf")

	// Opcionales vacíos no viajan.
	require.NotContains(t, payload, "ci")
	require.NotContains(t, payload, "xd")
	require.NotContains(t, payload, "ru")
}

func TestSign_FreshJTI(t *testing.T) {
	signer, _, mat := testFixture(t)

	s1, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)
	s2, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)

	j1 := decodeSegment(t, strings.Split(s1, ".")[1])["jti"]
	j2 := decodeSegment(t, strings.Split(s2, ".")[1])["jti"]
	require.NotEqual(t, j1, j2)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	signer, verifier, mat := testFixture(t)
	rec := validRecord()
	rec.CardID = "1234567890"
	rec.ExpiresAt = "2024-12-31"

	signed, err := signer.Sign(rec, mat)
	require.NoError(t, err)

	got, err := verifier.Verify(signed, mat)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestSign_SchemaGate(t *testing.T) {
	signer, _, mat := testFixture(t)
	rec := validRecord()
	rec.IssuingCountry = "XX"
	rec.FamilyName = ""

	_, err := signer.Sign(rec, mat)
	require.ErrorIs(t, err, ErrSchemaViolation)
	require.GreaterOrEqual(t, len(ViolationList(err)), 2)
}

func TestSign_InvariantGate(t *testing.T) {
	signer, _, mat := testFixture(t)
	rec := validRecord()
	rec.ValidFrom = "2024-06-01" // sd == ed

	_, err := signer.Sign(rec, mat)
	require.ErrorIs(t, err, ErrInvariantViolation)
	require.NotEmpty(t, ViolationList(err))
}

func TestSign_NoPrivateKey(t *testing.T) {
	signer, _, mat := testFixture(t)
	_, err := signer.Sign(validRecord(), mat.VerifyOnly())
	require.ErrorIs(t, err, ErrSigningFailure)
}

// Cambiar cualquier byte de la firma tiene que romper la verificación.
func TestVerify_TamperedSignature(t *testing.T) {
	signer, verifier, mat := testFixture(t)

	signed, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	for i := 0; i < len(sig); i += 7 {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		tampered[i] ^= 0x01
		bad := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(tampered)

		_, err := verifier.Verify(bad, mat)
		require.ErrorIs(t, err, ErrVerificationFailure, "flipped byte %d", i)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	signer, verifier, mat := testFixture(t)

	signed, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)
	parts := strings.Split(signed, ".")

	payload := decodeSegment(t, parts[1])
	payload["fn"] = "Impostor"
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(raw)

	_, err = verifier.Verify(strings.Join(parts, "."), mat)
	require.ErrorIs(t, err, ErrVerificationFailure)
}

// Sin fallback por confusión de algoritmo: el parser queda fijado al
// algoritmo del material, no al del header.
func TestVerify_AlgorithmPinned(t *testing.T) {
	signer, verifier, mat := testFixture(t)

	signed, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)

	confused := *mat
	confused.Alg = keys.RS512 // mismo material, tag distinto
	_, err = verifier.Verify(signed, &confused)
	require.ErrorIs(t, err, ErrVerificationFailure)
}

func TestVerify_WrongKey(t *testing.T) {
	signer, verifier, mat := testFixture(t)

	other, err := keys.Generate(keys.ES256, "prc")
	require.NoError(t, err)

	signed, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)

	_, err = verifier.Verify(signed, other)
	require.ErrorIs(t, err, ErrVerificationFailure)
}

// El payload se re-valida contra el schema: un token bien firmado con un
// record inválido se rechaza igual.
func TestVerify_RevalidatesSchema(t *testing.T) {
	_, verifier, mat := testFixture(t)

	rec := validRecord()
	rec.IssuingCountry = "ZZ" // fuera del enum
	claims := Claims{
		RegisteredClaims: jwtv5.RegisteredClaims{ID: "manual-1"},
		SID:              credential.SchemaID,
		Record:           rec,
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodES256, claims)
	tk.Header["kid"] = mat.KID
	signed, err := tk.SignedString(mat.Private)
	require.NoError(t, err)

	_, err = verifier.Verify(signed, mat)
	require.ErrorIs(t, err, ErrVerificationFailure)
}

func TestVerify_UnknownSID(t *testing.T) {
	_, verifier, mat := testFixture(t)

	claims := Claims{
		RegisteredClaims: jwtv5.RegisteredClaims{ID: "manual-2"},
		SID:              "eessi:prc:9.9",
		Record:           validRecord(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodES256, claims)
	tk.Header["kid"] = mat.KID
	signed, err := tk.SignedString(mat.Private)
	require.NoError(t, err)

	_, err = verifier.Verify(signed, mat)
	require.ErrorIs(t, err, ErrVerificationFailure)
}

func TestPeekKID(t *testing.T) {
	signer, _, mat := testFixture(t)

	signed, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)

	kid, err := PeekKID(signed)
	require.NoError(t, err)
	require.Equal(t, mat.KID, kid)

	_, err = PeekKID("not.a.token")
	require.Error(t, err)
}

func TestSignVerify_RSA(t *testing.T) {
	if testing.Short() {
		t.Skip("rsa keygen is slow")
	}
	schema, err := credential.NewSchema()
	require.NoError(t, err)
	mat, err := keys.Generate(keys.RS256, "prc")
	require.NoError(t, err)

	signer, verifier := NewSigner(schema), NewVerifier(schema)
	signed, err := signer.Sign(validRecord(), mat)
	require.NoError(t, err)

	header := decodeSegment(t, strings.Split(signed, ".")[0])
	require.Equal(t, "RS256", header["alg"])

	got, err := verifier.Verify(signed, mat)
	require.NoError(t, err)
	require.Equal(t, validRecord(), got)
}
