// Package servers holds the echo bindings generated from api/*.yml.
package servers

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config ../../../api/codegen-workflow.yml ../../../api/workflow.yml
//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config ../../../api/codegen-bonus.yml ../../../api/bonus.yml
