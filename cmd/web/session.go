package main

type sessionKey string

const adminIDSessionKey = sessionKey("adminID")
