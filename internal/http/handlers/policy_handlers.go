package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KEBA-mall/sto-backend/domain"
)

type PolicyHandlers struct{ Policies domain.PolicyService }

type policyReq struct{ Sub, Obj, Act string }

func (h *PolicyHandlers) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.Policies.GetPolicies())
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Policies.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not added"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Policies.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not removed"})
		return
	}
	c.Status(http.StatusNoContent)
}
