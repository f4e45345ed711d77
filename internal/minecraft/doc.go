// Package minecraft creates, lists and starts local Minecraft servers.
//
// Each server is a folder under the servers root holding server.jar,
// eula.txt and server.properties. Jars are resolved through the resolver
// package and written by the verified download engine, so a folder never
// ends up with a jar whose digest did not match.
package minecraft
