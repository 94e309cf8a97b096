package session

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/UnknownOlympus/hera/internal/models"
)

// loginResponse covers both shapes the authentication endpoint has been
// observed returning: an `admin` wrapped payload and a flat generic one.
// IDs arrive as either JSON numbers or strings depending on the shape.
type loginResponse struct {
	Admin       *adminPayload   `json:"admin"`
	ID          json.RawMessage `json:"id"`
	UserID      json.RawMessage `json:"userId"`
	Name        string          `json:"name"`
	UserName    string          `json:"userName"`
	Role        string          `json:"role"`
	Token       string          `json:"token"`
	AccessToken string          `json:"access_token"`
}

type adminPayload struct {
	ID       json.RawMessage `json:"id"`
	Name     string          `json:"Name"`
	LastName string          `json:"LastName"`
	Email    string          `json:"Email"`
}

// bearerToken returns the token carried by the response under either of
// the two known field names, or empty if none was returned.
func (r loginResponse) bearerToken() string {
	if r.Token != "" {
		return r.Token
	}

	return r.AccessToken
}

// normalizeIdentity classifies a decoded login response into one of the
// known shapes and builds an Identity from it:
//
//   - admin shape: name is `Name LastName`, email falls back to the
//     submitted address, id falls back to a timestamp, role is fixed to admin;
//   - generic shape: id falls back id -> userId -> timestamp, name falls
//     back name -> userName -> "Usuario", role defaults to employee and
//     email is always the submitted address.
//
// A response matching neither shape fails with ErrUnknownShape.
func normalizeIdentity(resp loginResponse, submittedEmail string, now func() time.Time) (models.Identity, error) {
	if resp.Admin != nil {
		email := resp.Admin.Email
		if email == "" {
			email = submittedEmail
		}

		return models.Identity{
			ID:    rawIDString(resp.Admin.ID, now),
			Name:  resp.Admin.Name + " " + resp.Admin.LastName,
			Email: email,
			Role:  models.RoleAdmin,
		}, nil
	}

	if len(resp.ID) == 0 && len(resp.UserID) == 0 && resp.Name == "" && resp.UserName == "" && resp.Role == "" {
		return models.Identity{}, ErrUnknownShape
	}

	identifier := rawIDString(resp.ID, nil)
	if identifier == "" {
		identifier = rawIDString(resp.UserID, now)
	}

	name := resp.Name
	if name == "" {
		name = resp.UserName
	}
	if name == "" {
		name = "Usuario"
	}

	role := models.Role(resp.Role)
	if role == "" {
		role = models.RoleEmployee
	}

	return models.Identity{
		ID:    identifier,
		Name:  name,
		Email: submittedEmail,
		Role:  role,
	}, nil
}

// rawIDString renders a raw JSON id (number or string) as a string.
// When the id is absent and a clock is given, a timestamp-derived value
// is used instead.
func rawIDString(raw json.RawMessage, now func() time.Time) string {
	var result string

	if len(raw) != 0 {
		var asString string
		if err := json.Unmarshal(raw, &asString); err == nil {
			result = asString
		} else {
			var asNumber int64
			if err = json.Unmarshal(raw, &asNumber); err == nil {
				result = strconv.FormatInt(asNumber, 10)
			}
		}
	}

	if result == "" && now != nil {
		result = strconv.FormatInt(now().UnixMilli(), 10)
	}

	return result
}
