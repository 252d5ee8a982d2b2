package tests

// Mock generation example for handler tests.
//
// Usage:
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name TaskFlowService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename taskflow_service_mock.go --with-expecter
//go:generate mockery --name WorkflowService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename workflow_service_mock.go --with-expecter
