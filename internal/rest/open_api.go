package rest

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/ghodss/yaml"
	"github.com/go-chi/chi/v5"
)

// NewOpenAPI3 instantiates the OpenAPI specification for this service.
func NewOpenAPI3() openapi3.T {
	swagger := openapi3.T{
		OpenAPI: "3.0.0",
		Info: &openapi3.Info{
			Title:       "Task Planner API",
			Description: "REST API for a multi-user task planner with sectioned, paginated listings",
			Version:     "0.1.0",
			Contact: &openapi3.Contact{
				URL: "https://github.com/sanLimbu/taskplanner-api",
			},
		},
		Servers: openapi3.Servers{
			&openapi3.Server{
				Description: "Local development",
				URL:         "http://0.0.0.0:9234",
			},
		},
	}

	swagger.Components = &openapi3.Components{}

	swagger.Components.Schemas = openapi3.Schemas{
		"Task": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewUUIDSchema()).
				WithProperty("user_id", openapi3.NewUUIDSchema()).
				WithProperty("title", openapi3.NewStringSchema().WithMaxLength(200)).
				WithProperty("description", openapi3.NewStringSchema()).
				WithProperty("status", openapi3.NewStringSchema().WithEnum("pending", "in_progress", "completed", "cancelled")).
				WithProperty("priority", openapi3.NewStringSchema().WithEnum("low", "medium", "high")).
				WithPropertyRef("dates", openapi3.NewSchemaRef("#/components/schemas/Dates", nil))),
		"Dates": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithProperty("start", openapi3.NewDateTimeSchema()).
				WithProperty("end", openapi3.NewDateTimeSchema())),
		"Page": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithPropertyRef("items", openapi3.NewSchemaRef("",
					openapi3.NewArraySchema().WithItems(openapi3.NewSchemaRef("#/components/schemas/Task", nil).Value))).
				WithProperty("number", openapi3.NewIntegerSchema()).
				WithProperty("total_pages", openapi3.NewIntegerSchema()).
				WithProperty("total_items", openapi3.NewIntegerSchema()).
				WithProperty("has_previous", openapi3.NewBoolSchema()).
				WithProperty("has_next", openapi3.NewBoolSchema())),
		"SectionedTasks": openapi3.NewSchemaRef("",
			openapi3.NewObjectSchema().
				WithPropertyRef("today", openapi3.NewSchemaRef("#/components/schemas/Page", nil)).
				WithPropertyRef("tomorrow", openapi3.NewSchemaRef("#/components/schemas/Page", nil)).
				WithPropertyRef("upcoming", openapi3.NewSchemaRef("#/components/schemas/Page", nil)).
				WithProperty("overdue_count", openapi3.NewIntegerSchema()).
				WithProperty("now", openapi3.NewDateTimeSchema())),
	}

	swagger.Components.RequestBodies = openapi3.RequestBodies{
		"CreateTaskRequest": &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().
				WithDescription("Request used for creating a task.").
				WithRequired(true).
				WithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("title", openapi3.NewStringSchema().WithMaxLength(200)).
					WithProperty("description", openapi3.NewStringSchema()).
					WithProperty("status", openapi3.NewStringSchema().WithEnum("pending", "in_progress", "completed", "cancelled")).
					WithProperty("priority", openapi3.NewStringSchema().WithEnum("low", "medium", "high")).
					WithProperty("start_date", openapi3.NewDateTimeSchema()).
					WithProperty("end_date", openapi3.NewDateTimeSchema())),
		},
	}

	swagger.Components.Responses = openapi3.Responses{
		"ErrorResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response when an error occurs.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("error", openapi3.NewStringSchema()))),
		},
		"TaskResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Response returned back after single-task operations.").
				WithContent(openapi3.NewContentWithJSONSchemaRef(
					openapi3.NewSchemaRef("#/components/schemas/Task", nil))),
		},
		"SectionedTasksResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Composite listing context with one paginated bucket per section.").
				WithContent(openapi3.NewContentWithJSONSchemaRef(
					openapi3.NewSchemaRef("#/components/schemas/SectionedTasks", nil))),
		},
		"FragmentResponse": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Envelope containing one rendered section fragment.").
				WithContent(openapi3.NewContentWithJSONSchema(openapi3.NewObjectSchema().
					WithProperty("html", openapi3.NewStringSchema()))),
		},
	}

	swagger.Paths = openapi3.Paths{
		"/tasks": &openapi3.PathItem{
			Get: &openapi3.Operation{
				OperationID: "ListTasks",
				Parameters: openapi3.Parameters{
					&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("today_page").WithSchema(openapi3.NewIntegerSchema())},
					&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("tomorrow_page").WithSchema(openapi3.NewIntegerSchema())},
					&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("upcoming_page").WithSchema(openapi3.NewIntegerSchema())},
					&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("section").WithSchema(openapi3.NewStringSchema().WithEnum("today", "tomorrow", "upcoming"))},
					&openapi3.ParameterRef{Value: openapi3.NewQueryParameter("page").WithSchema(openapi3.NewIntegerSchema())},
				},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/SectionedTasksResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
			Post: &openapi3.Operation{
				OperationID: "CreateTask",
				RequestBody: &openapi3.RequestBodyRef{
					Ref: "#/components/requestBodies/CreateTaskRequest",
				},
				Responses: openapi3.Responses{
					"201": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"500": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
		"/tasks/{id}": &openapi3.PathItem{
			Parameters: openapi3.Parameters{
				&openapi3.ParameterRef{
					Value: openapi3.NewPathParameter("id").WithSchema(openapi3.NewUUIDSchema()),
				},
			},
			Get: &openapi3.Operation{
				OperationID: "ReadTask",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"404": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
			Put: &openapi3.Operation{
				OperationID: "UpdateTask",
				RequestBody: &openapi3.RequestBodyRef{
					Ref: "#/components/requestBodies/CreateTaskRequest",
				},
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{Ref: "#/components/responses/TaskResponse"},
					"400": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
					"404": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
			Delete: &openapi3.Operation{
				OperationID: "DeleteTask",
				Responses: openapi3.Responses{
					"200": &openapi3.ResponseRef{
						Value: openapi3.NewResponse().WithDescription("Task deleted."),
					},
					"404": &openapi3.ResponseRef{Ref: "#/components/responses/ErrorResponse"},
				},
			},
		},
	}

	return swagger
}

// RegisterOpenAPI connects the OpenAPI document handlers to the router.
func RegisterOpenAPI(r chi.Router) {
	swagger := NewOpenAPI3()

	r.Get("/openapi3.json", func(w http.ResponseWriter, r *http.Request) {
		renderResponse(w, &swagger, http.StatusOK)
	})

	r.Get("/openapi3.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := yaml.Marshal(&swagger)
		if err != nil {
			http.Error(w, "couldn't marshal document", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = w.Write(data)
	})
}
