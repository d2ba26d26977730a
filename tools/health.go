package tools

import (
	"mcp-image-foundry/mcp"
)

// HealthStatus is the health_check output contract.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// callHealthCheck reports service liveness. Computed fresh on every call.
func (h *Handler) callHealthCheck() (interface{}, *mcp.RPCError) {
	h.logger.Debug("Executing callHealthCheck tool")
	return toolResultEnvelope(&HealthStatus{
		Status:  "healthy",
		Service: serviceName,
		Version: serviceVersion,
	})
}
