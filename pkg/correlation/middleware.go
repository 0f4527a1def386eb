package correlation

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxIDLength limita o tamanho de IDs recebidos de clientes
const maxIDLength = 128

// Middleware lê o correlation ID do cabeçalho (ou gera um novo), devolve-o
// na resposta e o armazena no contexto da requisição
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderName))
		if id == "" || len(id) > maxIDLength {
			id = uuid.NewString()
		}

		c.Set(string(correlationIDKey), id)
		c.Header(HeaderName, id)
		c.Request = c.Request.WithContext(WithID(c.Request.Context(), id))

		c.Next()
	}
}
