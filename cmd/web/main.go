// @title           AutoMarket API
// @version         1.0
// @description     Vehicle marketplace backend: subscription plans, payment requests, listings.
// @BasePath        /api/v1

package main

import "automarket_backend/internal/app"

func main() {
	app.Run()
}
