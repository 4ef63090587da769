package main

// @title Facility Maintenance Service API
// @version 1.0
// @description Work-order lifecycle, maintenance scheduling, conflict detection and inventory ledger API with full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/qiro-dev/facility-maintenance
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/qiro-dev/facility-maintenance/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name WorkOrders
// @tag.description Work order lifecycle endpoints

// @tag.name Schedules
// @tag.description Maintenance planning and scheduling endpoints

// @tag.name Inventory
// @tag.description Material stock and deduction ledger endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
