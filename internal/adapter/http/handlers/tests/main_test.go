package tests

import (
	"os"
	"testing"

	"tripmatch/pkg/translator"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator()
	os.Exit(m.Run())
}
