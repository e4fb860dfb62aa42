package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/auth"
	"contentapi/internal/config"
	"contentapi/internal/http/middleware"
	"contentapi/internal/repository"
	"contentapi/internal/schema"
	"contentapi/internal/service"
)

// itemRoute constrains the id segment to a 24-character hex identifier at
// routing level. Requests whose id does not match never reach the item
// handlers; they fall through to the generic not-found.
const itemRoute = "/:model/:id<regex([0-9a-fA-F]{24})>"

// RegisterRoutes attaches the API surface to the provided Fiber app.
//
// Every request to a model route passes the same linear pipeline:
// authenticate, resolve model, authorize, execute, shape response. Any stage
// may short-circuit to an error response; none is retried or skipped.
func RegisterRoutes(
	app *fiber.App,
	cfg *config.AppConfig,
	registry *schema.Registry,
	authn *auth.TokenAuthenticator,
	gw service.ModelGateway,
	repo repository.DocumentRepository,
) {
	// Serve the OpenAPI spec and a Swagger UI page
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks store connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := repo.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group(cfg.BasePath())

	// Root message, registered before the authentication middleware so it
	// stays reachable without a token.
	api.Get("/", func(c *fiber.Ctx) error {
		// APIVersion is the path segment ("v1"), already v-prefixed.
		return writeMessage(c, "API "+cfg.APIVersion)
	})

	api.Use(middleware.Authenticate(authn))

	// Create an item
	api.Post("/:model", func(c *fiber.Ctx) error {
		desc, status, msg := guardModel(c, registry)
		if status != 0 {
			return writeError(c, status, msg)
		}

		if err := gw.Create(c.UserContext(), desc.Name, c.Body()); err != nil {
			return writeGatewayError(c, err, "")
		}
		return writeMessage(c, desc.Name+" created")
	})

	// List all items of a model. No pagination: the full collection.
	api.Get("/:model", func(c *fiber.Ctx) error {
		desc, status, msg := guardModel(c, registry)
		if status != 0 {
			return writeError(c, status, msg)
		}

		items, err := gw.List(c.UserContext(), desc.Name)
		if err != nil {
			return writeGatewayError(c, err, "")
		}
		return c.JSON(fiber.Map{"items": items})
	})

	// Get the item with that id
	api.Get(itemRoute, func(c *fiber.Ctx) error {
		desc, status, msg := guardModel(c, registry)
		if status != 0 {
			return writeError(c, status, msg)
		}

		id := c.Params("id")
		item, err := gw.Get(c.UserContext(), desc.Name, id)
		if err != nil {
			return writeGatewayError(c, err, id)
		}
		return c.JSON(item)
	})

	// Partial update of the item with that id
	api.Put(itemRoute, func(c *fiber.Ctx) error {
		desc, status, msg := guardModel(c, registry)
		if status != 0 {
			return writeError(c, status, msg)
		}

		var patch map[string]any
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &patch); err != nil {
				return writeError(c, fiber.StatusBadRequest, "Error: "+err.Error())
			}
		}
		if patch == nil {
			patch = map[string]any{}
		}

		id := c.Params("id")
		if err := gw.Update(c.UserContext(), desc.Name, id, patch); err != nil {
			return writeGatewayError(c, err, id)
		}
		return writeMessage(c, desc.Name+": "+id+" updated")
	})

	// Delete the item with that id
	api.Delete(itemRoute, func(c *fiber.Ctx) error {
		desc, status, msg := guardModel(c, registry)
		if status != 0 {
			return writeError(c, status, msg)
		}

		id := c.Params("id")
		if err := gw.Delete(c.UserContext(), desc.Name, id); err != nil {
			return writeGatewayError(c, err, id)
		}
		return writeMessage(c, "Successfully deleted item with id: "+id)
	})
}

// guardModel resolves the :model path segment and authorizes the caller for
// the verb+model pair. A zero status means proceed; otherwise the returned
// status and message form the short-circuit response. Resolution precedes
// authorization so an unregistered name is a 404 rather than a 403.
func guardModel(c *fiber.Ctx, registry *schema.Registry) (schema.Descriptor, int, string) {
	modelName := c.Params("model")

	desc, err := registry.Resolve(modelName)
	if err != nil {
		return schema.Descriptor{}, fiber.StatusNotFound, "Unknown model: " + modelName
	}

	identity := middleware.IdentityFromCtx(c)
	if err := auth.Authorize(identity, c.Method(), modelName); err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			return schema.Descriptor{}, fiber.StatusForbidden, "Forbidden"
		}
		// Identity missing at this stage is a broken pipeline, not a deny.
		return schema.Descriptor{}, fiber.StatusInternalServerError, "Error: " + err.Error()
	}

	return desc, 0, ""
}
