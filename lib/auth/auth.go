package auth

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
)

// Claims represents the operator identity supplied by the API Gateway authorizer
type Claims struct {
	OperatorID string `json:"operator_id"`
	Email      string `json:"email"`
	CognitoID  string `json:"sub"`
}

// ExtractClaimsFromRequest extracts and parses JWT claims from API Gateway request
func ExtractClaimsFromRequest(request events.APIGatewayProxyRequest) (*Claims, error) {
	var claimsMap map[string]interface{}
	var ok bool

	if authClaims, exists := request.RequestContext.Authorizer["claims"]; exists {
		claimsMap, ok = authClaims.(map[string]interface{})
	}

	// some API Gateway configurations put the claims directly on the authorizer
	if !ok {
		claimsMap = request.RequestContext.Authorizer
		ok = (claimsMap != nil)
	}

	if !ok || claimsMap == nil {
		return nil, fmt.Errorf("claims not found in authorizer context")
	}

	cognitoID, ok := claimsMap["sub"].(string)
	if !ok || cognitoID == "" {
		return nil, fmt.Errorf("sub not found or invalid in claims")
	}

	email, ok := claimsMap["email"].(string)
	if !ok {
		return nil, fmt.Errorf("email not found or invalid in claims")
	}

	// operator_id is optional and falls back to the Cognito subject
	operatorID := cognitoID
	if value, exists := claimsMap["operator_id"]; exists {
		switch v := value.(type) {
		case string:
			if v != "" {
				operatorID = v
			}
		case float64:
			// JSON numbers are parsed as float64
			operatorID = strconv.FormatInt(int64(v), 10)
		default:
			return nil, fmt.Errorf("operator_id has unexpected type")
		}
	}

	return &Claims{
		OperatorID: operatorID,
		Email:      email,
		CognitoID:  cognitoID,
	}, nil
}

// ToJSON converts claims to JSON string for logging
func (c *Claims) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}
