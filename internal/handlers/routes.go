package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/smileworks/go-whitening-store/internal/aws"
	"github.com/smileworks/go-whitening-store/internal/models"
	"github.com/smileworks/go-whitening-store/internal/store"
	"github.com/smileworks/go-whitening-store/internal/validation"
)

// HandlerConfig groups dependencies for the storefront handlers.
type HandlerConfig struct {
	Store   *store.Store
	Metrics *aws.Metrics
}

// RegisterRoutes registers all storefront API routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Teeth Whitening Store Backend Running"})
	})

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/test", testStore(cfg))
	r.GET("/api/products", listProducts(cfg))
	r.POST("/api/orders", createOrder(cfg, v))
	r.POST("/api/subscribe", subscribe(cfg, v))
	r.GET("/schema", schemaInfo)
}

// testStore reports store connectivity without ever failing the request. All
// failure states come back as descriptive strings in the body.
func testStore(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		resp := gin.H{
			"backend":           "✅ Running",
			"database":          "❌ Not Available",
			"database_url":      nil,
			"database_name":     nil,
			"connection_status": "Not Connected",
			"collections":       []string{},
		}

		if cfg.Store.Available() {
			resp["database"] = "✅ Available"
			if aws.EndpointOverride() != "" {
				resp["database_url"] = "✅ Set"
			} else {
				resp["database_url"] = "❌ Not Set"
			}
			resp["database_name"] = cfg.Store.Name()
			resp["connection_status"] = "Connected"

			if collections, err := cfg.Store.ListCollections(ctx, 10); err != nil {
				resp["database"] = fmt.Sprintf("⚠️  Connected but Error: %.50s", err.Error())
			} else {
				resp["collections"] = collections
				resp["database"] = "✅ Connected & Working"
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}

// listProducts returns all products, normalized. An empty catalog is seeded
// with the default product first; concurrent first requests may each observe
// an empty catalog and seed duplicates, which is accepted for this demo.
func listProducts(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		products, err := cfg.Store.ListAll(ctx, models.ProductCollection)
		if err != nil {
			serverError(c, err)
			return
		}

		if len(products) == 0 {
			if _, err := cfg.Store.Create(ctx, models.ProductCollection, models.DefaultProduct()); err != nil {
				serverError(c, err)
				return
			}
			log.Info().Msg("seeded default product into empty catalog")
			if products, err = cfg.Store.ListAll(ctx, models.ProductCollection); err != nil {
				serverError(c, err)
				return
			}
		}

		out := make([]map[string]interface{}, 0, len(products))
		for _, p := range products {
			out = append(out, store.Normalize(p))
		}
		c.JSON(http.StatusOK, out)
	}
}

// createOrder validates the checkout payload and persists the order. The order
// is terminal at "received"; there is no later state transition.
func createOrder(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var order models.Order
		if err := validation.BindAndValidate(c, &order, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		// subtotal/total are non-nil here: BindAndValidate enforced presence
		if len(order.Items) == 0 || *order.Total < *order.Subtotal {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid order totals or items"})
			return
		}

		order.ApplyDefaults()

		id, err := cfg.Store.Create(ctx, models.OrderCollection, order)
		if err != nil {
			serverError(c, err)
			return
		}

		cfg.Metrics.CountOrderReceived(ctx)
		log.Info().Str("order_id", id).Str("email", order.Email).Msg("order received")
		c.JSON(http.StatusOK, gin.H{"id": id, "status": "received"})
	}
}

// subscribe persists an email capture. Duplicates are allowed; that's fine for demo.
func subscribe(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sub models.Subscriber
		if err := validation.BindAndValidate(c, &sub, v); err != nil {
			return
		}

		id, err := cfg.Store.Create(ctx, models.SubscriberCollection, sub)
		if err != nil {
			serverError(c, err)
			return
		}

		cfg.Metrics.CountSubscriber(ctx)
		c.JSON(http.StatusOK, gin.H{"id": id, "status": "subscribed"})
	}
}

// schemaInfo returns the ordered field names of each entity kind, derived from
// the schema metadata rather than stored data.
func schemaInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		models.ProductCollection:    models.FieldNames(models.Product{}),
		models.OrderCollection:      models.FieldNames(models.Order{}),
		models.SubscriberCollection: models.FieldNames(models.Subscriber{}),
	})
}

func serverError(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg("store call failed")
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}
