package server

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zosconnect/orchestrate"
	"github.com/zosconnect/orchestrate/pkg/api"
)

const bannerWidth = 69

var bannerArt = []string{
	"*****  ******   ***   ****  **    **    ****** **  **    ******",
	"** *** **      ** **  ** **  **  **     **  ** *** **       ** ",
	"*****  ****** ******* **  **  ****      **  ** ******      **  ",
	"** **  **     **   ** ** **    **       **  ** ** ***     **   ",
	"**  ** ****** **   ** ****     **       ****** **  **    ******",
}

func (s *Server) handleHealth(c *gin.Context) {
	res := api.HealthResponse{
		Service:  orchestrate.Name,
		Version:  orchestrate.Version,
		Status:   api.HealthOK,
		Variants: s.variantNames(),
	}
	if slices.Contains(s.variants, VariantClaim) {
		res.ClaimTypes = s.orch.ClaimTypes()
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleBanner(c *gin.Context) {
	c.String(http.StatusOK, Banner(s.port))
}

// Banner renders the ready message shown on the root path
func Banner(port int) string {
	rule := strings.Repeat("=", bannerWidth) + "\n"

	var b strings.Builder
	b.WriteString(rule)
	b.WriteString(bannerLine(
		fmt.Sprintf("Go sample application running on port %d.", port),
	))
	b.WriteString(rule)
	for _, line := range bannerArt {
		b.WriteString(bannerLine(line))
	}
	b.WriteString(rule)
	return b.String()
}

func bannerLine(text string) string {
	inner := bannerWidth - 2
	pad := max(inner-len(text), 0)
	left := pad / 2
	return "=" + strings.Repeat(" ", left) + text +
		strings.Repeat(" ", pad-left) + "=\n"
}
