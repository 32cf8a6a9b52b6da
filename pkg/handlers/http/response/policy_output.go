package response

import "github.com/NeuralTrust/TrustBatch/pkg/app/debouncer"

type ListPoliciesOutput struct {
	Policies []debouncer.PolicyInfo `json:"policies"`
	Count    int                    `json:"count"`
}
