package service

import "github.com/prometheus/client_golang/prometheus"

var loginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "authmini_login_attempts_total", Help: "Login attempts by outcome"},
	[]string{"outcome"}, // success / rejected / error
)

var registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "authmini_registrations_total", Help: "Registration attempts by outcome"},
	[]string{"outcome"},
)

func init() { prometheus.MustRegister(loginAttempts, registrations) }
