/*
Package fundingtest provides mocked implementations of the framework
interfaces for testing handlers without wiring a full application.
*/
package fundingtest
