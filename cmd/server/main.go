package main

import "smsportal/internal/app"

// @title        SMS Portal
// @version      1.0
// @description  Account signup with admin approval, SMS campaigns, calls and carrier lookups.
// @BasePath     /
func main() {
	app.Run()
}
